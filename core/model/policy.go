package model

import "fmt"

// PolicyConfig defines the scheduling parameters for one planning call.
// It is treated as immutable once normalized.
type PolicyConfig struct {
	PomodoroMinutes int  `json:"pomodoro_minutes" yaml:"pomodoro_minutes"`
	BreakMinutes    int  `json:"break_minutes" yaml:"break_minutes"`
	MaxDailyMinutes int  `json:"max_daily_minutes" yaml:"max_daily_minutes"`
	Cram            bool `json:"cram" yaml:"cram"`
}

const (
	defaultPomodoroMinutes = 25
	defaultBreakMinutes    = 5
	defaultMaxDailyMinutes = 240
	cramMaxDailyMinutes    = 360
)

// DefaultPolicy returns the standard policy, or the cram variant with a
// raised daily cap when cram is true.
func DefaultPolicy(cram bool) PolicyConfig {
	p := PolicyConfig{Cram: cram}
	p.SetDefaults()
	return p
}

// SetDefaults fills unset fields with their documented defaults.
func (p *PolicyConfig) SetDefaults() {
	if p.PomodoroMinutes == 0 {
		p.PomodoroMinutes = defaultPomodoroMinutes
	}
	if p.BreakMinutes == 0 {
		p.BreakMinutes = defaultBreakMinutes
	}
	if p.MaxDailyMinutes == 0 {
		if p.Cram {
			p.MaxDailyMinutes = cramMaxDailyMinutes
		} else {
			p.MaxDailyMinutes = defaultMaxDailyMinutes
		}
	}
}

// Validate checks that the policy can produce a non-empty schedule.
func (p PolicyConfig) Validate() error {
	if p.PomodoroMinutes <= 0 {
		return fmt.Errorf("pomodoro_minutes must be positive, got %d", p.PomodoroMinutes)
	}
	if p.BreakMinutes < 0 {
		return fmt.Errorf("break_minutes must not be negative, got %d", p.BreakMinutes)
	}
	if p.MaxDailyMinutes <= 0 {
		return fmt.Errorf("max_daily_minutes must be positive, got %d", p.MaxDailyMinutes)
	}
	if p.PomodoroMinutes > p.MaxDailyMinutes {
		return fmt.Errorf("pomodoro_minutes %d exceeds daily cap %d", p.PomodoroMinutes, p.MaxDailyMinutes)
	}
	return nil
}
