// Package config provides agent configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:LoadConfig"

// Config holds printer-agent configuration.
type Config struct {
	// COMMS: connect to the server's control channel at COMMSURL.
	COMMSURL  string `envconfig:"COMMS_URL" default:"nats://127.0.0.1:4222"`
	COMMSName string `envconfig:"SERVICE_NAME" default:"printer-agent"`

	// AgentID names this agent on the control channel; the server publishes
	// commands to the subject derived from it.
	AgentID string `envconfig:"AGENT_ID" default:"agent-local"`

	// Subject overrides (empty = derive defaults)
	CommandSubject  string `envconfig:"AGENT_COMMAND_SUBJECT"`
	PassthruSubject string `envconfig:"AGENT_PASSTHRU_SUBJECT"`
	StatusSubject   string `envconfig:"AGENT_STATUS_SUBJECT"`

	// Management server REST API
	ServerEndpoint string `envconfig:"SERVER_ENDPOINT_PREFIX" default:"https://app.printwatch.io"`
	AuthToken      string `envconfig:"AGENT_AUTH_TOKEN"`

	// Local print server
	PrintServerURL    string `envconfig:"PRINT_SERVER_URL" default:"http://127.0.0.1:5000"`
	PrintServerAPIKey string `envconfig:"PRINT_SERVER_API_KEY"`

	// Webcam streamer snapshot endpoint (empty = no webcam capability)
	WebcamSnapshotURL string `envconfig:"WEBCAM_SNAPSHOT_URL"`

	// Data channel peer (local WebRTC gateway ingesting datagrams)
	DataChannelHost       string `envconfig:"DATA_CHANNEL_HOST" default:"127.0.0.1"`
	DataChannelPort       int    `envconfig:"DATA_CHANNEL_PORT" default:"17740"`
	DataChannelMaxPayload int    `envconfig:"DATA_CHANNEL_MAX_PAYLOAD" default:"1400"`

	// Command handling
	DedupCapacity int           `envconfig:"COMMAND_DEDUP_CAPACITY" default:"25"`
	SettleDelay   time.Duration `envconfig:"STATUS_SETTLE_DELAY" default:"200ms"`
	CommandTimeout time.Duration `envconfig:"COMMAND_TIMEOUT" default:"25s"`

	// Settings snapshot refresh interval
	SettingsRefreshInterval time.Duration `envconfig:"SETTINGS_REFRESH_INTERVAL" default:"30m"`

	// HTTP health endpoint
	HTTPPort           int           `envconfig:"HTTP_PORT" default:"8081"`
	HealthCheckTimeout time.Duration `envconfig:"HEALTH_CHECK_TIMEOUT" default:"5s"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ValidateForServe checks required config when running the agent.
func (c *Config) ValidateForServe() error {
	if c.AgentID == "" {
		return fmt.Errorf("%s - AGENT_ID is required for serve", logPrefix)
	}
	if c.DataChannelPort <= 0 || c.DataChannelPort > 65535 {
		return fmt.Errorf("%s - DATA_CHANNEL_PORT must be a valid port", logPrefix)
	}
	if c.DataChannelMaxPayload <= 0 {
		return fmt.Errorf("%s - DATA_CHANNEL_MAX_PAYLOAD must be positive", logPrefix)
	}
	if c.DedupCapacity <= 0 {
		return fmt.Errorf("%s - COMMAND_DEDUP_CAPACITY must be positive", logPrefix)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("%s - STATUS_SETTLE_DELAY must not be negative", logPrefix)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("%s - COMMAND_TIMEOUT must be positive", logPrefix)
	}
	if c.HealthCheckTimeout <= 0 {
		return fmt.Errorf("%s - HEALTH_CHECK_TIMEOUT must be positive", logPrefix)
	}
	return nil
}
