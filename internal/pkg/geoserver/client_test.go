package geoserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const featureCollection = `{"type":"FeatureCollection","features":[{"type":"Feature","id":"landmark.1","properties":{"name":"Gyeongbokgung"}}]}`

func TestFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "WFS", q.Get("service"))
		assert.Equal(t, "1.0.0", q.Get("version"))
		assert.Equal(t, "GetFeature", q.Get("request"))
		assert.Equal(t, "Landmark:landmark", q.Get("typeName"))
		assert.Equal(t, "50", q.Get("maxFeatures"))
		assert.Equal(t, "application/json", q.Get("outputFormat"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(featureCollection))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/geoserver/Landmark/ows", srv.Client())
	body, err := c.Features(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, featureCollection, string(body))
}

func TestFeatures_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"xml exception report", http.StatusOK, `<ServiceExceptionReport/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, srv.Client()).Features(context.Background())
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestFeatures_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	for i := 0; i < 5; i++ {
		_, err := c.Features(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	}
	require.Equal(t, int32(5), hits.Load())

	_, err := c.Features(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(5), hits.Load(), "open breaker must not reach upstream")
}

func TestFeatureURL_KeepsExistingQuery(t *testing.T) {
	c := NewClient("http://geo.local/ows?authkey=abc", http.DefaultClient)
	u, err := c.FeatureURL()
	require.NoError(t, err)
	assert.Contains(t, u, "authkey=abc")
	assert.Contains(t, u, "typeName=Landmark%3Alandmark")
}
