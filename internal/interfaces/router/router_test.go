package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	app *fiber.App
	db  *gorm.DB
	rdb *redis.Client
}

func setup(t *testing.T) *harness {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	db := testutil.OpenDB(t)
	cfg := &config.Config{DisplayCurrency: "BRL", HealthAdminKey: "k"}
	return &harness{app: Build(cfg, db, rdb), db: db, rdb: rdb}
}

// login stores a session for role/host and returns its id.
func (h *harness) login(t *testing.T, role, host string) string {
	t.Helper()
	sid := uuid.NewString()
	b, _ := json.Marshal(middleware.SessionActor{UserID: uuid.NewString(), Username: role + "_" + host, Role: role, Host: host})
	require.NoError(t, h.rdb.Set(context.Background(), middleware.SessionRedisPrefix+sid, b, 0).Err())
	return sid
}

func (h *harness) call(t *testing.T, sid, method, target, body string) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.Header.Set("Authorization", "Bearer "+sid)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestAPI_RequiresSession(t *testing.T) {
	h := setup(t)
	status, _ := h.call(t, "", "GET", "/api/v1/portfolios", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAPI_EndToEndLedger(t *testing.T) {
	h := setup(t)
	admin := h.login(t, "admin_super", "")
	senior := h.login(t, "investor_senior", "alpha")
	junior := h.login(t, "investor_junior", "alpha")
	outsider := h.login(t, "investor_senior", "beta")

	status, out := h.call(t, admin, "POST", "/api/v1/assets", `{"ticker":"ABC","name":"Alpha Beta","category":"EQUITY"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assetID := out["data"].(map[string]interface{})["asset_id"].(string)

	status, out = h.call(t, senior, "POST", "/api/v1/portfolios", `{"name":"Growth","host":"beta"}`)
	require.Equal(t, fiber.StatusCreated, status)
	p := out["data"].(map[string]interface{})
	assert.Equal(t, "alpha", p["host"])
	txPath := fmt.Sprintf("/api/v1/portfolios/%s/transactions", p["portfolio_id"])

	for _, body := range []string{
		fmt.Sprintf(`{"asset_id":%q,"kind":"BUY","quantity":"2.00","price":"8.00"}`, assetID),
		fmt.Sprintf(`{"asset_id":%q,"kind":"BUY","quantity":"5.00","price":"10.00"}`, assetID),
	} {
		status, _ = h.call(t, senior, "POST", txPath, body)
		require.Equal(t, fiber.StatusCreated, status)
	}

	status, out = h.call(t, senior, "POST", txPath, fmt.Sprintf(`{"asset_id":%q,"kind":"SELL","quantity":"20.00","price":"1.00"}`, assetID))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_QUANTITY", out["error"].(map[string]interface{})["reason"])

	status, _ = h.call(t, junior, "POST", txPath, fmt.Sprintf(`{"asset_id":%q,"kind":"BUY","quantity":"1","price":"1"}`, assetID))
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.call(t, outsider, "POST", txPath, fmt.Sprintf(`{"asset_id":%q,"kind":"BUY","quantity":"1","price":"1"}`, assetID))
	assert.Equal(t, fiber.StatusNotFound, status)

	status, out = h.call(t, junior, "GET", "/api/v1/holdings", "")
	require.Equal(t, fiber.StatusOK, status)
	holdings := out["data"].([]interface{})
	require.Len(t, holdings, 1)
	row := holdings[0].(map[string]interface{})
	assert.Equal(t, "7.00", decimal.RequireFromString(row["quantity_total"].(string)).StringFixed(2))
	assert.Equal(t, "9.43", decimal.RequireFromString(row["avg_price"].(string)).StringFixed(2))

	status, out = h.call(t, outsider, "GET", "/api/v1/holdings", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, out["data"])

	status, out = h.call(t, junior, "GET", txPath, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["data"], 2)
	assert.Equal(t, int64(2), testutil.CountRows(t, h.db, &domain.Transaction{}))
}

func TestHealthRoutesArePublic(t *testing.T) {
	h := setup(t)
	status, out := h.call(t, "", "GET", "/health/json", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", out["status"])

	status, _ = h.call(t, "", "GET", "/reset?key=k", "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestFailedRequestsAreCounted(t *testing.T) {
	h := setup(t)
	sid := h.login(t, "investor_junior", "alpha")
	h.call(t, sid, "GET", "/api/v1/portfolios", "")
	h.call(t, "", "GET", "/api/v1/portfolios", "")

	total, err := h.rdb.Get(context.Background(), middleware.KeyReqTotal).Int()
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
