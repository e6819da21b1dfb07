package app

import (
	"encoding/json"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/mw46d/WeatherFlow-PiConsole/internal/config"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/env"
)

// MQTTPublisher announces every folded reading on the configured topic,
// retained so late subscribers get the latest value immediately.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	log    *zap.Logger
}

// NewMQTTPublisher connects to the configured broker. Call only when
// MQTT_BROKER is set.
func NewMQTTPublisher(log *zap.Logger) (*MQTTPublisher, error) {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	log.Info("connected to MQTT broker", zap.String("broker", cfg.MQTTBroker))

	return &MQTTPublisher{
		client: client,
		topic:  cfg.MQTTTopic,
		log:    log,
	}, nil
}

// Publish implements ReadingSink.
func (p *MQTTPublisher) Publish(r env.Reading) {
	payload, err := json.Marshal(r)
	if err != nil {
		p.log.Error("mqtt marshal error", zap.Error(err))
		return
	}

	token := p.client.Publish(p.topic, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		p.log.Error("mqtt publish error", zap.Error(token.Error()))
	}
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
