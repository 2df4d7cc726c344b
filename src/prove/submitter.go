package prove

import (
	"context"
	"errors"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/ledger"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"
)

// Runs the proof sequence against the ledger node for every sample
// it receives. A failed sequence leaves the sample unattested, the
// next poller sweep picks it up again.
type Submitter struct {
	*task.Task

	client  *ledger.Client
	monitor monitoring.Monitor

	input chan *model.MovementSample

	// Attestations of successfully posted proofs
	Output chan *model.Attestation
}

func NewSubmitter(config *config.Config) (self *Submitter) {
	self = new(Submitter)

	self.Output = make(chan *model.Attestation)

	self.Task = task.NewTask(config, "submitter").
		// Limits the number of proof sequences running in parallel
		WithWorkerPool(config.Prover.NumSubmitWorkers, config.Prover.WorkerQueueSize).
		WithSubtaskFunc(self.run).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *Submitter) WithClient(client *ledger.Client) *Submitter {
	self.client = client
	return self
}

func (self *Submitter) WithMonitor(monitor monitoring.Monitor) *Submitter {
	self.monitor = monitor
	return self
}

func (self *Submitter) WithInputChannel(input chan *model.MovementSample) *Submitter {
	self.input = input
	return self
}

// Waits for new samples, finishes when the source is closed
func (self *Submitter) run() (err error) {
	for sample := range self.input {
		sample := sample

		self.SubmitToWorker(func() {
			if self.IsStopping.Load() {
				// Don't start new proofs when stopping
				return
			}
			self.submit(sample)
		})
	}
	return nil
}

func (self *Submitter) submit(sample *model.MovementSample) {
	attestation, err := self.prove(sample)
	if err != nil {
		self.onError(sample, err)
		return
	}

	self.monitor.GetReport().Prover.State.ProofsSubmitted.Inc()
	self.monitor.GetReport().Prover.State.LastProofUnixSec.Store(time.Now().Unix())

	select {
	case <-self.Ctx.Done():
	case self.Output <- attestation:
	}
}

func (self *Submitter) prove(sample *model.MovementSample) (attestation *model.Attestation, err error) {
	coin, err := self.pickFundingCoin()
	if err != nil {
		return
	}

	txnId, err := self.withStepTimeout(func(ctx context.Context) (string, error) {
		return self.client.CreateTransaction(ctx)
	})
	if err != nil {
		return
	}

	_, err = self.withStepTimeout(func(ctx context.Context) (string, error) {
		return "", self.client.AttachFundingInput(ctx, txnId, coin.CoinID)
	})
	if err != nil {
		return
	}

	contentHash := ContentHash(sample)

	metadata := &ledger.Metadata{
		DeviceID:  sample.DeviceID,
		Hash:      contentHash,
		Latitude:  sample.Latitude,
		Longitude: sample.Longitude,
		Timestamp: sample.CapturedAt.UnixMilli(),
	}

	_, err = self.withStepTimeout(func(ctx context.Context) (string, error) {
		return "", self.client.AttachMetadata(ctx, txnId, metadata)
	})
	if err != nil {
		return
	}

	_, err = self.withStepTimeout(func(ctx context.Context) (string, error) {
		return "", self.client.Sign(ctx, txnId)
	})
	if err != nil {
		return
	}

	txReference, err := self.withStepTimeout(func(ctx context.Context) (string, error) {
		return self.client.Post(ctx, txnId)
	})
	if err != nil {
		return
	}

	attestation = &model.Attestation{
		DeviceID:    sample.DeviceID,
		SampleID:    sample.ID,
		Kind:        model.AttestationKindMovement,
		ContentHash: contentHash,
		TxReference: txReference,
		CreatedAt:   time.Now(),
	}
	return
}

// Picks the first spendable coin that covers the funding value
func (self *Submitter) pickFundingCoin() (coin *ledger.Coin, err error) {
	var coins []ledger.Coin
	_, err = self.withStepTimeout(func(ctx context.Context) (out string, err error) {
		coins, err = self.client.ListSpendableCoins(ctx)
		return
	})
	if err != nil {
		return
	}

	for i := range coins {
		value, err := coins[i].Value()
		if err != nil {
			continue
		}
		if value >= self.Config.Ledger.MinFundingValue {
			return &coins[i], nil
		}
	}

	return nil, ledger.NewError(ledger.StepFunding, ledger.ErrNoSpendableCoins)
}

func (self *Submitter) withStepTimeout(f func(ctx context.Context) (string, error)) (out string, err error) {
	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Prover.LedgerStepTimeout)
	defer cancel()
	return f(ctx)
}

func (self *Submitter) onError(sample *model.MovementSample, err error) {
	self.Log.WithError(err).
		WithField("device_id", sample.DeviceID).
		WithField("sample_id", sample.ID).
		Error("Proof sequence failed")

	var ledgerErr *ledger.Error
	if !errors.As(err, &ledgerErr) {
		return
	}

	errorsReport := &self.monitor.GetReport().Prover.Errors
	switch ledgerErr.Step {
	case ledger.StepCreate:
		errorsReport.CreateError.Inc()
	case ledger.StepFunding:
		if errors.Is(err, ledger.ErrNoSpendableCoins) {
			errorsReport.NoSpendableCoins.Inc()
		} else {
			errorsReport.FundingError.Inc()
		}
	case ledger.StepMetadata:
		errorsReport.MetadataError.Inc()
	case ledger.StepSigning:
		errorsReport.SigningError.Inc()
	case ledger.StepPosting:
		errorsReport.PostingError.Inc()
	case ledger.StepQuery:
		// Coin listing happens before funding
		errorsReport.FundingError.Inc()
	}
}
