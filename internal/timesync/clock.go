package timesync

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"go.uber.org/zap"
)

// Clock is the time source used for response timestamps.
type Clock interface {
	Now() time.Time
}

// System is the plain OS clock, used when no NTP server is configured.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// NTP is a clock disciplined against an NTP server. It keeps the last
// measured offset and applies it to the OS clock; until the first successful
// query it behaves like the system clock.
type NTP struct {
	server   string
	interval time.Duration
	log      *zap.Logger

	mu     sync.RWMutex
	offset time.Duration
}

// NewNTP returns a clock that syncs against server every interval once Run
// is started.
func NewNTP(server string, interval time.Duration, log *zap.Logger) *NTP {
	return &NTP{server: server, interval: interval, log: log}
}

func (c *NTP) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Now().Add(c.offset)
}

// Run queries the server immediately and then on every tick until ctx is
// cancelled. Query failures keep the previous offset.
func (c *NTP) Run(ctx context.Context) {
	c.sync()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sync()
		case <-ctx.Done():
			return
		}
	}
}

func (c *NTP) sync() {
	resp, err := ntp.Query(c.server)
	if err != nil {
		c.log.Error("ntp query failed", zap.String("server", c.server), zap.Error(err))
		return
	}
	if err := resp.Validate(); err != nil {
		c.log.Error("ntp response invalid", zap.String("server", c.server), zap.Error(err))
		return
	}

	c.mu.Lock()
	c.offset = resp.ClockOffset
	c.mu.Unlock()

	c.log.Info("ntp synced",
		zap.String("server", c.server),
		zap.Duration("offset", resp.ClockOffset),
	)
}
