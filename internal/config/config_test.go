package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "station.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
# station config
I2C_BUS = /dev/i2c-1
BME280_I2C_ADDR = 0x77
AXP192_I2C_ADDR = 0x34
DISPLAY_UPDATE_INTERVAL = 1000
SAMPLE_INTERVAL = 10000
HTTP_PORT = 80
STATION_ELEVATION = 423.5
MDNS_NAME = esp8266-env
NTP_SERVER = pool.ntp.org
NTP_SYNC_INTERVAL_MINUTES = 30
MQTT_BROKER = tcp://localhost:1883
MQTT_CLIENT_ID = station
MQTT_TOPIC = station/env
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.I2CBus != "/dev/i2c-1" {
		t.Errorf("I2CBus = %q, want /dev/i2c-1", cfg.I2CBus)
	}
	if cfg.BME280I2CAddr != 0x77 {
		t.Errorf("BME280I2CAddr = 0x%02X, want 0x77", cfg.BME280I2CAddr)
	}
	if cfg.SampleInterval != 10000 {
		t.Errorf("SampleInterval = %d, want 10000", cfg.SampleInterval)
	}
	if cfg.HTTPPort != 80 {
		t.Errorf("HTTPPort = %d, want 80", cfg.HTTPPort)
	}
	if cfg.NTPSyncIntervalMins != 30 {
		t.Errorf("NTPSyncIntervalMins = %d, want 30", cfg.NTPSyncIntervalMins)
	}
	if cfg.StationElevation != 423.5 {
		t.Errorf("StationElevation = %v, want 423.5", cfg.StationElevation)
	}
	if cfg.MQTTTopic != "station/env" {
		t.Errorf("MQTTTopic = %q, want station/env", cfg.MQTTTopic)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
SAMPLE_INTERVAL = 2000
HTTP_PORT = 8080
DISPLAY_UPDATE_INTERVAL = 500
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BME280I2CAddr != 0x76 {
		t.Errorf("default BME280I2CAddr = 0x%02X, want 0x76", cfg.BME280I2CAddr)
	}
	if cfg.AXP192I2CAddr != 0x34 {
		t.Errorf("default AXP192I2CAddr = 0x%02X, want 0x34", cfg.AXP192I2CAddr)
	}
	if cfg.NTPSyncIntervalMins != 60 {
		t.Errorf("default NTPSyncIntervalMins = %d, want 60", cfg.NTPSyncIntervalMins)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, "BOGUS_KEY = 1\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	path := writeConfig(t, "SAMPLE_INTERVAL = 2000\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing HTTP_PORT, got nil")
	}
}

func TestLoadMQTTTopicRequiredWithBroker(t *testing.T) {
	path := writeConfig(t, `
SAMPLE_INTERVAL = 2000
HTTP_PORT = 8080
DISPLAY_UPDATE_INTERVAL = 500
MQTT_BROKER = tcp://localhost:1883
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for MQTT_BROKER without MQTT_TOPIC, got nil")
	}
}

func TestLoadZeroNTPSyncInterval(t *testing.T) {
	path := writeConfig(t, `
SAMPLE_INTERVAL = 2000
HTTP_PORT = 8080
DISPLAY_UPDATE_INTERVAL = 500
NTP_SYNC_INTERVAL_MINUTES = 0
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for zero NTP_SYNC_INTERVAL_MINUTES, got nil")
	}
}

func TestLoadMalformedLine(t *testing.T) {
	path := writeConfig(t, "SAMPLE_INTERVAL\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed line, got nil")
	}
}
