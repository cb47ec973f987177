package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/test", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/test", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/test", "200")); v < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", v)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_ErrorStatus(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/broken", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "down")
	})

	if _, err := app.Test(httptest.NewRequest("GET", "/api/broken", nil)); err != nil {
		t.Fatal(err)
	}

	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/broken", "503")); v < 1 {
		t.Errorf("expected 503 to be recorded, got %f", v)
	}
}

func TestObserveIndexCall(t *testing.T) {
	before := testutil.ToFloat64(IndexErrorsTotal.WithLabelValues("memory", "search"))

	ObserveIndexCall("memory", "search", time.Now(), nil)
	ObserveIndexCall("memory", "search", time.Now(), errors.New("boom"))

	after := testutil.ToFloat64(IndexErrorsTotal.WithLabelValues("memory", "search"))
	if after-before != 1 {
		t.Errorf("expected one recorded error, got %f", after-before)
	}
}

func TestNormalizePath(t *testing.T) {
	if normalizePath("") != "unknown" {
		t.Error("empty path should be unknown")
	}
	if normalizePath("/api/search") != "/api/search" {
		t.Error("route pattern should be kept")
	}
}
