package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	l := newZerologLogger("test", &buf)
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
	out := buf.String()
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, "info test")
}

func TestZerologLoggerDevConsole(t *testing.T) {
	require.NoError(t, os.Setenv("APP_ENV", "dev"))
	t.Cleanup(func() { _ = os.Unsetenv("APP_ENV") })
	var buf bytes.Buffer
	l := newZerologLogger("test", &buf)
	l.Infof("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("d")
	l.Debugw("d", nil)
	l.Infof("i")
	l.Warnf("w")
	l.Errorf("e")
}
