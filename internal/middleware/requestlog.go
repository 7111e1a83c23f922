// internal/middleware/requestlog.go
//
// Access-log middleware.
//
// Context
// -------
// One INFO line per completed request: method, path, status, bytes, and
// latency, enriched with the UA and country metadata that the requestinfo
// middleware stored earlier in the chain.  The portal serves applicants
// world-wide, so the country field is the first thing support looks at
// when a submission report comes in.
//
// Notes
// -----
// • /metrics and /media are logged at DEBUG to keep the daily file small.

package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ica-so/etas-portal/internal/requestinfo"
)

// statusRecorder captures the status code and byte count for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// RequestLog logs every completed request through the global zap logger.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"dur", time.Since(start).Round(time.Millisecond).String(),
		}
		if info := requestinfo.FromContext(r.Context()); info != nil {
			fields = append(fields,
				"country", info.Geo.CountryISO,
				"browser", info.UA.Browser,
				"device", info.UA.Device,
			)
		}

		if strings.HasPrefix(r.URL.Path, "/metrics") || strings.HasPrefix(r.URL.Path, "/media") {
			zap.S().Debugw("request", fields...)
			return
		}
		zap.S().Infow("request", fields...)
	})
}
