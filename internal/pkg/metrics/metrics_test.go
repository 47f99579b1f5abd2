package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTokenValidation(t *testing.T) {
	before := testutil.ToFloat64(TokenValidations.WithLabelValues(OutcomeInvalid))
	ObserveTokenValidation(OutcomeInvalid)
	assert.Equal(t, before+1, testutil.ToFloat64(TokenValidations.WithLabelValues(OutcomeInvalid)))
}

func TestObserveLogin(t *testing.T) {
	before := testutil.ToFloat64(LoginAttempts.WithLabelValues("github", OutcomeSuccess))
	ObserveLogin("github", OutcomeSuccess, time.Now())
	assert.Equal(t, before+1, testutil.ToFloat64(LoginAttempts.WithLabelValues("github", OutcomeSuccess)))
}

func TestObserveUpstream(t *testing.T) {
	ok := testutil.ToFloat64(UpstreamRequests.WithLabelValues("geoserver", OutcomeSuccess))
	failed := testutil.ToFloat64(UpstreamRequests.WithLabelValues("geoserver", OutcomeError))

	ObserveUpstream("geoserver", nil)
	ObserveUpstream("geoserver", errors.New("timeout"))

	assert.Equal(t, ok+1, testutil.ToFloat64(UpstreamRequests.WithLabelValues("geoserver", OutcomeSuccess)))
	assert.Equal(t, failed+1, testutil.ToFloat64(UpstreamRequests.WithLabelValues("geoserver", OutcomeError)))
}

func TestHandler(t *testing.T) {
	ObserveTokenValidation(OutcomeValid)

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "landmark_token_validations_total")
}
