package notify

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/focusplan/focusplan/core/model"
	"github.com/focusplan/focusplan/infra/logger"
)

// Config defines the connection parameters for the MQTT plan publisher.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	Retain      bool   `json:"retain"`
}

// SetDefaults fills unset fields with usable defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "focusplan-publisher"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "focusplan/plans"
	}
}

// Validate checks the configuration when publishing is enabled.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("mqtt broker must be set when publishing is enabled")
	}
	return nil
}

// pahoClient is the subset of the Paho client the publisher uses. Tests
// substitute a fake through newMQTTClient.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

const tokenTimeout = 5 * time.Second

// NewPahoPublisher connects to the broker and returns a ready publisher.
func NewPahoPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true)
	cli := newMQTTClient(opts)
	tok := cli.Connect()
	if !tok.WaitTimeout(tokenTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &Publisher{cli: cli, cfg: cfg, log: logger.New("plan-publisher")}, nil
}

// Publisher broadcasts generated plans over MQTT, one JSON message per
// task on <prefix>/<taskID>. It implements notify.PlanPublisher.
type Publisher struct {
	cli pahoClient
	cfg Config
	log logger.Logger
}

// PublishPlan marshals the plan and publishes it on the task's topic.
func (p *Publisher) PublishPlan(taskID string, plan model.TaskPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	topic := fmt.Sprintf("%s/%s", p.cfg.TopicPrefix, taskID)
	tok := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retain, payload)
	if !tok.WaitTimeout(tokenTimeout) {
		return fmt.Errorf("publish on %s timed out", topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("publish on %s: %w", topic, err)
	}
	p.log.Debugw("plan published", map[string]any{"topic": topic, "slots": len(plan.Slots)})
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() error {
	p.cli.Disconnect(250)
	return nil
}
