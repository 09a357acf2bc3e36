package mechshop

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ZerologTelemetry bridges TelemetryHooks onto a zerolog logger, so
// applications already carrying one get SDK logs without writing hook
// plumbing themselves.
func ZerologTelemetry(logger zerolog.Logger) TelemetryHooks {
	return TelemetryHooks{
		OnHTTPResponse: func(ctx context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration) {
			evt := logger.Debug().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Dur("latency", latency)
			if err != nil {
				evt = logger.Warn().
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Dur("latency", latency).
					Err(err)
			} else if resp != nil {
				evt = evt.Int("status", resp.StatusCode)
			}
			evt.Msg("api request")
		},
		OnLogEntry: func(ctx context.Context, entry LogEntry) {
			var evt *zerolog.Event
			switch entry.Level {
			case LogLevelError:
				evt = logger.Error()
			case LogLevelWarn:
				evt = logger.Warn()
			default:
				evt = logger.Info()
			}
			evt.Fields(entry.Fields).Msg(entry.Message)
		},
	}
}
