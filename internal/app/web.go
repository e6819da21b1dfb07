package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mw46d/WeatherFlow-PiConsole/internal/config"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/env"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/power"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/timesync"
)

// sensorsResponse is the /sensors document. Pressure and sea-level pressure
// are reported in hPa, the timestamp in epoch seconds from the station
// clock.
type sensorsResponse struct {
	TempRaw   float64 `json:"temp_raw"`
	Temp      float64 `json:"temp"`
	Hum       float64 `json:"hum"`
	Pressure  float64 `json:"pressure"`
	DewPoint  float64 `json:"dewpoint"`
	SLP       float64 `json:"slp"`
	Timestamp int64   `json:"timestamp"`
	VBat      float64 `json:"vbat"`
	APS       float64 `json:"aps"`
	Level     int     `json:"level"`
	AXPTemp   float64 `json:"axp_temp"`
}

// finite maps the NaN/Inf the derived formulas produce on degenerate input
// (zero humidity or pressure) to 0, since JSON cannot carry them.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NewHandler builds the HTTP query surface. Both routes are pure reads of
// the current state and always answer 200, even before the first successful
// sample. hub may be nil when the live feed is disabled. elevation is the
// station elevation in meters, used for the sea-level pressure reduction.
func NewHandler(state *env.State, pwr power.Source, clock timesync.Clock, hub *Hub, elevation float64, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			handleNotFound(w, r)
			return
		}

		s := state.Snapshot()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "hello from esp8266! %.1f  %.1f", s.Temperature, s.Humidity)
	})

	mux.HandleFunc("/sensors", func(w http.ResponseWriter, r *http.Request) {
		s := state.Snapshot()

		tele, err := pwr.Read()
		if err != nil {
			// Still a 200: telemetry gaps must not break the sensor
			// document.
			log.Error("power telemetry read failed", zap.Error(err))
		}

		resp := sensorsResponse{
			TempRaw:   s.Temperature,
			Temp:      env.CorrectedTemperature(s.Temperature, tele.ChipTempC),
			Hum:       s.Humidity,
			Pressure:  s.Pressure / 100.0,
			DewPoint:  finite(env.DewPoint(s.Temperature, s.Humidity)),
			SLP:       finite(env.SeaLevelPressure(s.Pressure, elevation)),
			Timestamp: clock.Now().Unix(),
			VBat:      tele.BatteryVolts,
			APS:       tele.SupplyVolts,
			Level:     tele.WarnLevel,
			AXPTemp:   tele.ChipTempC,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error("json encode error", zap.Error(err))
		}
	})

	if hub != nil {
		mux.HandleFunc("/ws", hub.handleConnection)
	}

	return mux
}

// handleNotFound echoes the unmatched request back to the caller, useful
// for poking at the API by hand.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("File Not Found\n\n")
	fmt.Fprintf(&b, "URI: %s\n", r.URL.Path)
	fmt.Fprintf(&b, "Method: %s\n", r.Method)

	args := r.URL.Query()
	n := 0
	for _, values := range args {
		n += len(values)
	}
	fmt.Fprintf(&b, "Arguments: %d\n", n)
	for name, values := range args {
		for _, v := range values {
			fmt.Fprintf(&b, " %s: %s\n", name, v)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(b.String()))
}

// RunWeb serves the query surface until ctx is cancelled.
func RunWeb(ctx context.Context, handler http.Handler, log *zap.Logger) error {
	cfg := config.Get()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("web server listening", zap.Int("port", cfg.HTTPPort))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
