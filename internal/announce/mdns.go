package announce

import (
	"context"
	"fmt"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"
)

// Register announces the station's HTTP service over mDNS under the given
// instance name and keeps the registration alive until ctx is cancelled.
func Register(ctx context.Context, name string, port int, log *zap.Logger) error {
	server, err := zeroconf.Register(name, "_http._tcp", "local.", port, nil, nil)
	if err != nil {
		return fmt.Errorf("mDNS register: %w", err)
	}

	log.Info("mDNS service registered",
		zap.String("name", name),
		zap.Int("port", port),
	)

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	return nil
}
