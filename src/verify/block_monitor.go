package verify

import (
	"context"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/ledger"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"go.uber.org/atomic"
)

// Watches the ledger's block height. Announces every increase of the
// stable height, that's the trigger for checking pending attestations.
// Stable height trails the tip by the configured confirmation blocks.
type BlockMonitor struct {
	*task.Task

	client  *ledger.Client
	monitor monitoring.Monitor

	lastStableHeight *atomic.Int64

	Output chan int64
}

func NewBlockMonitor(config *config.Config) (self *BlockMonitor) {
	self = new(BlockMonitor)

	self.lastStableHeight = atomic.NewInt64(0)
	self.Output = make(chan int64, 1)

	self.Task = task.NewTask(config, "block-monitor").
		WithPeriodicSubtaskFunc(config.Verifier.BlockMonitorInterval, self.check).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *BlockMonitor) WithClient(client *ledger.Client) *BlockMonitor {
	self.client = client
	return self
}

func (self *BlockMonitor) WithMonitor(monitor monitoring.Monitor) *BlockMonitor {
	self.monitor = monitor
	return self
}

func (self *BlockMonitor) GetLastStableHeight() int64 {
	return self.lastStableHeight.Load()
}

func (self *BlockMonitor) check() (err error) {
	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Ledger.RequestTimeout)
	defer cancel()

	height, err := self.client.CurrentBlockHeight(ctx)
	if err != nil {
		self.Log.WithError(err).Warn("Failed to get current block height")
		self.monitor.GetReport().BlockMonitor.Errors.HeightQueryError.Inc()
		return nil
	}

	self.monitor.GetReport().BlockMonitor.State.CurrentHeight.Store(height)
	self.monitor.GetReport().BlockMonitor.State.LastCheckUnixSec.Store(time.Now().Unix())

	stable := height - int64(self.Config.Verifier.MinConfirmationBlocks)
	if stable <= self.lastStableHeight.Load() {
		return nil
	}

	self.lastStableHeight.Store(stable)
	self.monitor.GetReport().BlockMonitor.State.StableHeight.Store(stable)
	self.monitor.GetReport().BlockMonitor.State.HeightsAnnounced.Inc()

	// Don't block when the poller is still busy with the last height,
	// it will pick up the newest stable height on its next round
	select {
	case self.Output <- stable:
	default:
	}

	return nil
}
