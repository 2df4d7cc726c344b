package prove

import (
	"context"
	"testing"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/eventbus"
	"github.com/trackium/trackd/src/utils/model"
	monitor_prover "github.com/trackium/trackd/src/utils/monitoring/prover"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

// Runs against the configured postgres, skipped when it's unreachable
type StoreTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	config *config.Config
	db     *gorm.DB
}

func (s *StoreTestSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.config = config.Default()

	db, err := model.NewConnection(s.ctx, s.config, "test")
	if err != nil {
		s.T().Skipf("postgres not available: %v", err)
	}
	s.db = db
}

func (s *StoreTestSuite) TearDownSuite() {
	s.cancel()
}

func (s *StoreTestSuite) SetupTest() {
	err := s.db.Exec("TRUNCATE domain_events, attestations, movement_samples, devices CASCADE").Error
	require.Nil(s.T(), err)
}

func (s *StoreTestSuite) createDevice(deviceId string) {
	err := s.db.Create(&model.Device{
		DeviceID:           deviceId,
		Name:               "Test device",
		Class:              model.DeviceClassTracker,
		Status:             model.DeviceStatusOffline,
		Battery:            100,
		AttestationEnabled: true,
		CreatedAt:          time.Now(),
	}).Error
	require.Nil(s.T(), err)
}

func (s *StoreTestSuite) createSample(deviceId string) (sample *model.MovementSample) {
	sample = &model.MovementSample{
		DeviceID:   deviceId,
		Latitude:   52.23,
		Longitude:  21.01,
		CapturedAt: time.Now(),
	}
	err := s.db.Create(sample).Error
	require.Nil(s.T(), err)
	return
}

func (s *StoreTestSuite) TestMarkAttestedCas() {
	s.createDevice("TRACK-TEST-0001")
	sample := s.createSample("TRACK-TEST-0001")

	monitor := monitor_prover.NewMonitor()

	bus := eventbus.NewBus(s.config, s.db).
		WithMonitor(monitor)
	err := bus.Start()
	require.Nil(s.T(), err)
	defer bus.StopWait()

	store := NewStore(s.config).
		WithDB(s.db).
		WithEventBus(bus).
		WithMonitor(monitor)

	attestation := func(reference string) *model.Attestation {
		return &model.Attestation{
			DeviceID:    sample.DeviceID,
			SampleID:    sample.ID,
			Kind:        model.AttestationKindMovement,
			ContentHash: "cafe",
			TxReference: reference,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
	}

	err = store.flush([]*model.Attestation{attestation("0xREF1")})
	require.Nil(s.T(), err)

	var reloaded model.MovementSample
	err = s.db.First(&reloaded, sample.ID).Error
	require.Nil(s.T(), err)
	require.True(s.T(), reloaded.Attested)
	require.Equal(s.T(), "0xREF1", reloaded.AttestationRef.String)

	// Same reference repeats are no-ops
	err = store.flush([]*model.Attestation{attestation("0xREF1")})
	require.Nil(s.T(), err)
	require.Zero(s.T(), monitor.GetReport().Prover.Errors.MarkAttestedConflict.Load())

	// A different reference loses and leaves the sample untouched
	err = store.flush([]*model.Attestation{attestation("0xREF2")})
	require.Nil(s.T(), err)
	require.EqualValues(s.T(), 1, monitor.GetReport().Prover.Errors.MarkAttestedConflict.Load())

	err = s.db.First(&reloaded, sample.ID).Error
	require.Nil(s.T(), err)
	require.Equal(s.T(), "0xREF1", reloaded.AttestationRef.String)
}

func (s *StoreTestSuite) TestPollerClaimsOnce() {
	s.createDevice("TRACK-TEST-0002")
	s.createSample("TRACK-TEST-0002")
	latest := s.createSample("TRACK-TEST-0002")

	monitor := monitor_prover.NewMonitor()

	output := make(chan *model.MovementSample, 10)
	poller := NewPoller(s.config).
		WithDB(s.db).
		WithMonitor(monitor).
		WithOutputChannel(output)

	err := poller.handleNew()
	require.Nil(s.T(), err)
	require.Len(s.T(), output, 1)

	claimed := <-output
	require.Equal(s.T(), latest.ID, claimed.ID)

	// The claim holds, the next sweep finds nothing
	err = poller.handleNew()
	require.Nil(s.T(), err)
	require.Len(s.T(), output, 0)
}

func (s *StoreTestSuite) TestNotifierClaimBlocksOverlap() {
	s.createDevice("TRACK-TEST-0003")
	s.createSample("TRACK-TEST-0003")
	latest := s.createSample("TRACK-TEST-0003")

	monitor := monitor_prover.NewMonitor()

	notifier := NewNotifier(s.config).
		WithDB(s.db).
		WithMonitor(monitor)

	claimed, err := notifier.claimLatest("TRACK-TEST-0003")
	require.Nil(s.T(), err)
	require.NotNil(s.T(), claimed)
	require.Equal(s.T(), latest.ID, claimed.ID)

	// A second request overlapping the first claims nothing
	claimed, err = notifier.claimLatest("TRACK-TEST-0003")
	require.Nil(s.T(), err)
	require.Nil(s.T(), claimed)
}
