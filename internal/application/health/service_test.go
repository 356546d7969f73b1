package health

import (
	"context"
	"errors"
	"testing"

	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func newRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return rdb
}

func TestCollect_NothingConfigured(t *testing.T) {
	r := Collect(context.Background(), nil, nil)
	assert.Equal(t, "issue", r.Status)
	assert.Equal(t, "disconnected", r.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", r.Dependencies["redis"].Status)
	assert.Equal(t, 0, r.Traffic.TotalRequests)
	assert.Len(t, r.Runtime.CPU.LoadAvg, 3)
	assert.NotEmpty(t, r.Runtime.GoVersion)
}

func TestCollect_Healthy(t *testing.T) {
	rdb := newRedis(t)
	db := testutil.OpenDB(t)
	ctx := context.Background()

	require.NoError(t, rdb.Set(ctx, middleware.KeyReqTotal, "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyReqErrors, "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyResTime, "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyResCount, "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyLastReq, `{"path":"/api/v1/portfolios","method":"GET"}`, 0).Err())

	r := Collect(ctx, rdb, GormPinger{DB: db})
	assert.Equal(t, "ok", r.Status)
	assert.Equal(t, "connected", r.Dependencies["database"].Status)
	require.NotNil(t, r.Dependencies["redis"].PingMs)
	assert.Equal(t, 10, r.Traffic.TotalRequests)
	assert.Equal(t, 8, r.Traffic.SuccessCount)
	assert.Equal(t, "80.0", r.Traffic.SuccessRate)
	assert.Equal(t, "15.05", r.Traffic.AvgResponseTime)
	assert.Equal(t, "/api/v1/portfolios", r.Traffic.LastRequest.(map[string]interface{})["path"])

	started, err := rdb.Get(ctx, middleware.KeyStartTime).Int64()
	require.NoError(t, err)
	assert.Positive(t, started)
}

func TestCollect_DatabaseDown(t *testing.T) {
	r := Collect(context.Background(), newRedis(t), failingPinger{})
	assert.Equal(t, "issue", r.Status)
	assert.Equal(t, "error", r.Dependencies["database"].Status)
	assert.Nil(t, r.Dependencies["database"].PingMs)
}

func TestResetAndRecentErrors(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	require.NoError(t, rdb.Set(ctx, middleware.KeyReqTotal, "5", 0).Err())
	require.NoError(t, rdb.LPush(ctx, middleware.KeyErrorLog, `{"path":"/x","status":500}`, "not json").Err())

	entries, err := RecentErrors(ctx, rdb)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/x", entries[0].Path)

	require.NoError(t, Reset(ctx, rdb))
	assert.Equal(t, int64(0), rdb.Exists(ctx, middleware.KeyReqTotal, middleware.KeyErrorLog).Val())
	assert.Equal(t, int64(1), rdb.Exists(ctx, middleware.KeyStartTime).Val())
}
