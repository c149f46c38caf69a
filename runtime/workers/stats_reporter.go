package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ConnectionCounter reports how many live connections the registry holds.
type ConnectionCounter interface {
	Count() int
}

// StatsReporterWorker logs process level health on a fixed cadence: CPU,
// resident memory, and the live connection count. It is the cheap
// observability floor for a deployment without a metrics pipeline.
type StatsReporterWorker struct {
	log      *slog.Logger
	registry ConnectionCounter
	interval time.Duration
}

func NewStatsReporterWorker(log *slog.Logger, registry ConnectionCounter, interval time.Duration) *StatsReporterWorker {
	return &StatsReporterWorker{log: log, registry: registry, interval: interval}
}

func (w *StatsReporterWorker) Run(ctx context.Context) error {
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cpu, err := self.CPUPercent()
			if err != nil {
				w.log.Error("Error while finding process cpu usage", "err", err)
				continue
			}
			ram, err := self.MemoryPercent()
			if err != nil {
				w.log.Error("Error while finding process ram usage", "err", err)
				continue
			}
			w.log.Info("server stats",
				"cpu_percent", cpu,
				"ram_percent", ram,
				"connections", w.registry.Count())
		}
	}
}
