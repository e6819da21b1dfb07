package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all station configuration values.
type Config struct {
	// I2C Hardware
	I2CBus        string
	BME280I2CAddr uint16
	AXP192I2CAddr uint16

	// Display
	DisplayUpdateInterval int // milliseconds

	// Timing
	SampleInterval int // milliseconds

	// HTTP
	HTTPPort int

	// Station site
	StationElevation float64 // meters above sea level

	// Collaborators
	MDNSName            string
	NTPServer           string
	NTPSyncIntervalMins int

	// MQTT (optional, publisher disabled when broker is empty)
	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string
}

// Package-level unexported variables for the config singleton. External code
// must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{
		BME280I2CAddr:       0x76,
		AXP192I2CAddr:       0x34,
		NTPSyncIntervalMins: 60,
	}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// I2C Hardware
	case "I2C_BUS":
		c.I2CBus = value
	case "BME280_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid BME280_I2C_ADDR %q: %w", value, err)
		}
		c.BME280I2CAddr = uint16(addr)
	case "AXP192_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid AXP192_I2C_ADDR %q: %w", value, err)
		}
		c.AXP192I2CAddr = uint16(addr)

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval

	// HTTP
	case "HTTP_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid HTTP_PORT %q: %w", value, err)
		}
		c.HTTPPort = port

	// Station site
	case "STATION_ELEVATION":
		elev, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid STATION_ELEVATION %q: %w", value, err)
		}
		c.StationElevation = elev

	// Collaborators
	case "MDNS_NAME":
		c.MDNSName = value
	case "NTP_SERVER":
		c.NTPServer = value
	case "NTP_SYNC_INTERVAL_MINUTES":
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid NTP_SYNC_INTERVAL_MINUTES %q: %w", value, err)
		}
		c.NTPSyncIntervalMins = minutes

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "MQTT_TOPIC":
		c.MQTTTopic = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.SampleInterval == 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	if c.HTTPPort == 0 {
		return fmt.Errorf("HTTP_PORT is required")
	}
	if c.DisplayUpdateInterval == 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL is required")
	}
	if c.MQTTBroker != "" && c.MQTTTopic == "" {
		return fmt.Errorf("MQTT_TOPIC is required when MQTT_BROKER is set")
	}
	if c.NTPSyncIntervalMins <= 0 {
		return fmt.Errorf("NTP_SYNC_INTERVAL_MINUTES must be positive")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Uses sync.Once
// so this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
