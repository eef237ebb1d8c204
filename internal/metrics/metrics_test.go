package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{}

func (failingPublisher) Publish(string, []byte) error { return errors.New("broker down") }

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/stores/:id", func(c *fiber.Ctx) error { return c.SendString(c.Params("id")) })
	app.Get("/metrics", m.Handler())

	for _, id := range []string{"1", "2", "3"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stores/"+id, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/stores/:id", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "storerating_http_requests_total"))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}

func TestCountEvents(t *testing.T) {
	m := New()

	require.NoError(t, m.CountEvents(nil).Publish("user.created", nil))
	assert.Error(t, m.CountEvents(failingPublisher{}).Publish("rating.submitted", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("user.created", "counted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("rating.submitted", "failed")))
}
