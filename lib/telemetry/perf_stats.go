package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var (
	meter            = otel.Meter("go.perf_stats")
	cpuGauge, _      = meter.Float64Gauge("cpu_usage")
	memoryGauge, _   = meter.Int64Gauge("allocated_mb")
	liveObjects, _   = meter.Int64Gauge("live_objects")
	goroutineCnt, _  = meter.Int64Gauge("goroutine_count")
	perfPollInterval = time.Second * 30
)

// InstrumentPerfStats records process-level resource gauges until the
// context is cancelled.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		var memStats runtime.MemStats
		ticker := time.NewTicker(perfPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)

				cpuUsage, err := cpu.Percent(time.Minute, false)
				if err != nil {
					slog.Warn("failed to read cpu usage", "err", err)
				} else if len(cpuUsage) > 0 {
					cpuGauge.Record(ctx, cpuUsage[0])
				}

				memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
				liveObjects.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
				goroutineCnt.Record(ctx, int64(runtime.NumGoroutine()))
			case <-ctx.Done():
				return
			}
		}
	}()
}
