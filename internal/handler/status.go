package handler

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"tg-appeals/internal/service"
)

// processing counters
var (
	totalMessagesProcessed int64
	totalCallbackQueries   int64
	totalErrors            int64
	startTime              = time.Now()
)

func incrementCounter(counter *int64) {
	atomic.AddInt64(counter, 1)
}

// Uptime returns how long the process has been running.
func Uptime() time.Duration {
	return time.Since(startTime)
}

// GetDetailedStatus renders process counters and runtime stats for the
// /status command.
func GetDetailedStatus() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return fmt.Sprintf(`=== Appeals Bot Status ===
Uptime: %s
Messages Processed: %d
Callback Queries: %d
Errors: %d
Open Sessions: %d
Memory Usage: %d MB
Total Allocated: %d MB
GC Runs: %d
Goroutines: %d
==========================`,
		formatUptime(Uptime()),
		atomic.LoadInt64(&totalMessagesProcessed),
		atomic.LoadInt64(&totalCallbackQueries),
		atomic.LoadInt64(&totalErrors),
		service.Sessions().Count(),
		bToMb(m.Alloc),
		bToMb(m.TotalAlloc),
		m.NumGC,
		runtime.NumGoroutine(),
	)
}

// bToMb converts bytes to MB
func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
