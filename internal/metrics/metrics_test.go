package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func scrape(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("app.Test error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func TestHandler(t *testing.T) {
	app := fiber.New()
	app.Get("/metrics", Handler())

	if body := scrape(t, app); !strings.Contains(body, "go_goroutines") {
		t.Error("Should contain go_goroutines metric")
	}
}

func TestMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware("/health"))
	app.Get("/api/holdings", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("healthy")
	})
	app.Get("/metrics", Handler())

	for _, path := range []string{"/api/holdings", "/health"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("app.Test error = %v", err)
		}
		resp.Body.Close()
	}

	body := scrape(t, app)
	if !strings.Contains(body, `path="/api/holdings"`) {
		t.Error("Should record /api/holdings")
	}
	if strings.Contains(body, `path="/health"`) {
		t.Error("Should skip /health")
	}
}

func TestRefreshCounters(t *testing.T) {
	RecordQuoteFetch("fetched")
	RecordRefresh("completed", 150*time.Millisecond)
	RecordRefresh("skipped", 0)
	RecordPriceLogWrites(3)

	app := fiber.New()
	app.Get("/metrics", Handler())
	body := scrape(t, app)

	for _, want := range []string{
		`quote_fetches_total{status="fetched"}`,
		`quote_refreshes_total{outcome="skipped"}`,
		"quote_refresh_duration_seconds",
		"price_log_entries_written_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Should contain %s", want)
		}
	}
}
