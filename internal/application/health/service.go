package health

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"nostr-ads-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

// DBPinger is optional for health check. If nil, database is reported as
// disconnected.
type DBPinger interface {
	Ping() error
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

type TrafficInfo struct {
	TotalRequests int64  `json:"totalRequests"`
	FailedCount   int64  `json:"failedCount"`
	AvgResponseMs string `json:"avgResponseMs"`
}

type CollectResult struct {
	Status       string               `json:"status"`
	UptimeSecs   int64                `json:"uptimeSeconds"`
	GoVersion    string               `json:"goVersion"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

// CollectHealth gathers dependency status and the request counters the
// HealthMarker middleware keeps in Redis.
func CollectHealth(ctx context.Context, rdb *redis.Client, db DBPinger) CollectResult {
	result := CollectResult{
		UptimeSecs:   int64(time.Since(startTime).Seconds()),
		GoVersion:    runtime.Version(),
		Dependencies: make(map[string]DepStatus),
	}

	dbStatus := "disconnected"
	var dbPingMs interface{}
	if db != nil {
		start := time.Now()
		if err := db.Ping(); err == nil {
			dbPingMs = time.Since(start).Milliseconds()
			dbStatus = "connected"
		} else {
			dbStatus = "error"
		}
	}
	result.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPingMs}

	redisStatus := "disconnected"
	var redisPingMs interface{}
	if rdb != nil {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			redisPingMs = time.Since(start).Milliseconds()
			redisStatus = "connected"
		} else {
			redisStatus = "error"
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPingMs}

	if rdb != nil {
		total, _ := rdb.Get(ctx, middleware.KeyReqTotal).Int64()
		failed, _ := rdb.Get(ctx, middleware.KeyReqErrors).Int64()
		resTime, _ := rdb.Get(ctx, middleware.KeyResTime).Float64()
		resCount, _ := rdb.Get(ctx, middleware.KeyResCount).Int64()
		avg := "n/a"
		if resCount > 0 {
			avg = strconv.FormatFloat(resTime/float64(resCount), 'f', 1, 64)
		}
		result.Traffic = TrafficInfo{TotalRequests: total, FailedCount: failed, AvgResponseMs: avg}
	}

	result.Status = "ok"
	if dbStatus == "error" || redisStatus == "error" {
		result.Status = "degraded"
	}
	return result
}
