package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Token validation outcomes
const (
	OutcomeAbsent      = "absent"
	OutcomeInvalid     = "invalid"
	OutcomeUnknownUser = "unknown_user"
	OutcomeValid       = "valid"
)

// Login and upstream outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

var (
	// LoginAttempts counts completed OAuth2 callbacks.
	// Labels:
	//   - provider: "github", "google"
	//   - outcome: "success", "failure", "error"
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landmark_login_attempts_total",
			Help: "Total number of OAuth2 login attempts",
		},
		[]string{"provider", "outcome"},
	)

	LoginDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "landmark_login_duration_seconds",
			Help:    "Duration of OAuth2 callback handling in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	TokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landmark_token_validations_total",
			Help: "Bearer token resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// UpstreamRequests counts calls to GeoServer and object storage.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landmark_upstream_requests_total",
			Help: "Requests to upstream services by outcome",
		},
		[]string{"upstream", "outcome"},
	)
)

func ObserveLogin(provider, outcome string, started time.Time) {
	LoginAttempts.WithLabelValues(provider, outcome).Inc()
	LoginDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

func ObserveTokenValidation(outcome string) {
	TokenValidations.WithLabelValues(outcome).Inc()
}

func ObserveUpstream(upstream string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	UpstreamRequests.WithLabelValues(upstream, outcome).Inc()
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
