package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"portfolio-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"gorm.io/gorm"
)

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// GormPinger pings the pool behind a gorm handle.
type GormPinger struct {
	DB *gorm.DB
}

func (g GormPinger) Ping(ctx context.Context) error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Report is the /health/json payload.
type Report struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	CPU           CPUInfo    `json:"cpu"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
	Goroutines    int        `json:"goroutines"`
}

// MemoryInfo sizes are in MB.
type MemoryInfo struct {
	HeapUsed          int     `json:"heapUsed"`
	SystemTotal       int     `json:"systemTotal"`
	SystemUsedPercent float64 `json:"systemUsedPercent"`
}

type CPUInfo struct {
	LoadAvg []string `json:"loadAvg"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime string      `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

const (
	statusConnected    = "connected"
	statusDisconnected = "disconnected"
	statusError        = "error"
)

// Collect gathers dependency, traffic and host runtime figures. It never
// fails: an unavailable dependency is reported, not returned.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger) Report {
	report := Report{Dependencies: make(map[string]DepStatus)}

	report.Dependencies["database"] = ping(func() error {
		if db == nil {
			return nil
		}
		return db.Ping(ctx)
	}, db == nil)

	startedAt := time.Now().Unix()
	traffic := TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"}
	redisDep := ping(func() error {
		if rdb == nil {
			return nil
		}
		return rdb.Ping(ctx).Err()
	}, rdb == nil)
	if redisDep.Status == statusConnected {
		traffic, startedAt = readTraffic(ctx, rdb, startedAt)
	}
	report.Dependencies["redis"] = redisDep
	report.Traffic = traffic
	report.Runtime = readRuntime(ctx, startedAt)

	report.Status = "issue"
	if report.Dependencies["database"].Status == statusConnected && redisDep.Status == statusConnected {
		report.Status = "ok"
	}
	return report
}

func ping(fn func() error, missing bool) DepStatus {
	if missing {
		return DepStatus{Status: statusDisconnected}
	}
	start := time.Now()
	if err := fn(); err != nil {
		return DepStatus{Status: statusError}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: statusConnected, PingMs: &ms}
}

func readTraffic(ctx context.Context, rdb *redis.Client, startedAt int64) (TrafficInfo, int64) {
	stats := TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"}
	vals, err := rdb.MGet(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	).Result()
	if err != nil {
		return stats, startedAt
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	stats.TotalRequests, _ = strconv.Atoi(str(0))
	stats.FailedCount, _ = strconv.Atoi(str(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	if count, _ := strconv.Atoi(str(3)); count > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(count), 'f', 2, 64)
	}
	if t, err := strconv.ParseInt(str(4), 10, 64); err == nil {
		startedAt = t
	} else {
		rdb.SetNX(ctx, middleware.KeyStartTime, startedAt, 0)
	}
	if last := str(5); last != "" {
		var m map[string]interface{}
		if json.Unmarshal([]byte(last), &m) == nil {
			stats.LastRequest = m
		}
	}
	return stats, startedAt
}

func readRuntime(ctx context.Context, startedAt int64) RuntimeInfo {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	info := RuntimeInfo{
		UptimeSeconds: time.Now().Unix() - startedAt,
		Memory:        MemoryInfo{HeapUsed: int(ms.HeapInuse / 1024 / 1024)},
		CPU:           CPUInfo{LoadAvg: []string{"0.00", "0.00", "0.00"}},
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
	}
	if info.UptimeSeconds < 0 {
		info.UptimeSeconds = 0
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		info.CPU.LoadAvg = []string{
			strconv.FormatFloat(avg.Load1, 'f', 2, 64),
			strconv.FormatFloat(avg.Load5, 'f', 2, 64),
			strconv.FormatFloat(avg.Load15, 'f', 2, 64),
		}
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.Memory.SystemTotal = int(vm.Total / 1024 / 1024)
		info.Memory.SystemUsedPercent = vm.UsedPercent
	}
	return info
}

// Reset clears the traffic counters and restarts the uptime clock.
func Reset(ctx context.Context, rdb *redis.Client) error {
	keys := []string{
		middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime, middleware.KeyResCount,
		middleware.KeyStartTime, middleware.KeyLastReq, middleware.KeyErrorLog,
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	return rdb.Set(ctx, middleware.KeyStartTime, time.Now().Unix(), 0).Err()
}

// RecentErrors returns the newest-first 5xx log.
func RecentErrors(ctx context.Context, rdb *redis.Client) ([]middleware.ErrorEntry, error) {
	raw, err := rdb.LRange(ctx, middleware.KeyErrorLog, 0, middleware.ErrorLogSize-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]middleware.ErrorEntry, 0, len(raw))
	for _, s := range raw {
		var e middleware.ErrorEntry
		if json.Unmarshal([]byte(s), &e) == nil {
			out = append(out, e)
		}
	}
	return out, nil
}
