package verify

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/ledger"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"
)

// Looks up claimed attestations on the ledger and compares the
// embedded proof hash with the stored one. Only transactions that
// made it into a stable block count as confirmed.
type Checker struct {
	*task.Task

	client       *ledger.Client
	blockMonitor *BlockMonitor
	monitor      monitoring.Monitor

	input chan *model.Attestation

	// Attestations confirmed on the ledger
	Output chan *Payload
}

func NewChecker(config *config.Config) (self *Checker) {
	self = new(Checker)

	self.Output = make(chan *Payload)

	self.Task = task.NewTask(config, "checker").
		WithSubtaskFunc(self.run).
		WithWorkerPool(config.Verifier.WorkerPoolSize, config.Verifier.WorkerQueueSize).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *Checker) WithClient(client *ledger.Client) *Checker {
	self.client = client
	return self
}

func (self *Checker) WithBlockMonitor(blockMonitor *BlockMonitor) *Checker {
	self.blockMonitor = blockMonitor
	return self
}

func (self *Checker) WithInputChannel(input chan *model.Attestation) *Checker {
	self.input = input
	return self
}

func (self *Checker) WithMonitor(monitor monitoring.Monitor) *Checker {
	self.monitor = monitor
	return self
}

// Waits for claimed attestations, finishes when the source is closed
func (self *Checker) run() (err error) {
	for attestation := range self.input {
		attestation := attestation

		self.SubmitToWorker(func() {
			if self.IsStopping.Load() {
				return
			}
			self.check(attestation)
		})
	}
	return nil
}

func (self *Checker) check(attestation *model.Attestation) {
	self.monitor.GetReport().Verifier.State.AllCheckedAttestations.Inc()

	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Ledger.RequestTimeout)
	defer cancel()

	transaction, err := self.client.Find(ctx, attestation.TxReference)
	if err != nil {
		if errors.Is(err, ledger.ErrTxNotFound) {
			// Not propagated yet, the retry window will bring it back
			self.monitor.GetReport().Verifier.State.NotFoundOnLedger.Inc()
			return
		}
		self.Log.WithError(err).
			WithField("tx_reference", attestation.TxReference).
			Warn("Failed to look up transaction")
		self.monitor.GetReport().Verifier.Errors.LedgerQueryError.Inc()
		return
	}

	if !transaction.InBlock || transaction.BlockHeight > self.blockMonitor.GetLastStableHeight() {
		// Awaiting confirmations
		return
	}

	var metadata ledger.Metadata
	err = json.Unmarshal([]byte(transaction.StateValue(ledger.MetadataPort)), &metadata)
	if err != nil {
		self.Log.WithError(err).
			WithField("tx_reference", attestation.TxReference).
			Error("Transaction carries malformed proof metadata")
		self.monitor.GetReport().Verifier.State.HashMismatches.Inc()
		return
	}

	if metadata.Hash != attestation.ContentHash {
		self.Log.WithField("tx_reference", attestation.TxReference).
			WithField("attestation_id", attestation.ID).
			Error("Proof hash doesn't match the stored sample")
		self.monitor.GetReport().Verifier.State.HashMismatches.Inc()
		return
	}

	select {
	case <-self.Ctx.Done():
	case self.Output <- &Payload{AttestationID: attestation.ID, BlockHeight: transaction.BlockHeight}:
	}
}
