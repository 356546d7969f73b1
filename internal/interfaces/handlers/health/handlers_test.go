package health

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	healthsvc "portfolio-backend/internal/application/health"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHealthHandlers(t *testing.T) (*Handlers, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &Handlers{
		Rdb:            rdb,
		DB:             healthsvc.GormPinger{DB: testutil.OpenDB(t)},
		HealthAdminKey: "test-admin-key",
	}, rdb
}

func healthApp(h *Handlers) *fiber.App {
	app := fiber.New()
	app.Get("/reset", h.Reset)
	app.Get("/health/json", h.JSON)
	app.Get("/health/errors", h.Errors)
	return app
}

func TestReset_Unauthorized(t *testing.T) {
	h, _ := setupHealthHandlers(t)
	app := healthApp(h)

	for _, target := range []string{"/reset", "/reset?key=wrong"} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, "Unauthorized", out["error"].(map[string]interface{})["message"])
	}
}

func TestReset_Success(t *testing.T) {
	h, rdb := setupHealthHandlers(t)
	ctx := context.Background()
	require.NoError(t, rdb.Set(ctx, middleware.KeyReqTotal, "99", 0).Err())

	resp, err := healthApp(h).Test(httptest.NewRequest("GET", "/reset?key=test-admin-key", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), rdb.Exists(ctx, middleware.KeyReqTotal).Val())
}

func TestJSON(t *testing.T) {
	h, _ := setupHealthHandlers(t)
	resp, err := healthApp(h).Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "portfolio-api", out["service"])
	assert.Equal(t, "ok", out["status"])
	deps := out["dependencies"].(map[string]interface{})
	assert.Contains(t, deps, "database")
	assert.Contains(t, deps, "redis")
	assert.NotContains(t, deps, "stripe")
}

func TestJSON_DegradedIs503(t *testing.T) {
	h := &Handlers{}
	resp, err := healthApp(h).Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestErrors(t *testing.T) {
	h, rdb := setupHealthHandlers(t)
	entry, _ := json.Marshal(middleware.ErrorEntry{Path: "/api/v1/portfolios", Status: 500, TraceID: "t1"})
	require.NoError(t, rdb.LPush(context.Background(), middleware.KeyErrorLog, entry).Err())

	resp, err := healthApp(h).Test(httptest.NewRequest("GET", "/health/errors", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out []middleware.ErrorEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "t1", out[0].TraceID)
}
