package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/trackium/trackd/src/registry"
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/eventbus"
	"github.com/trackium/trackd/src/utils/model"
	monitor_ingester "github.com/trackium/trackd/src/utils/monitoring/ingester"

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

func (s *StoreTestSuite) createDevice(deviceId string, status model.DeviceStatus) {
	err := s.db.Create(&model.Device{
		DeviceID:           deviceId,
		Name:               "Test device",
		Class:              model.DeviceClassTracker,
		Status:             status,
		Battery:            100,
		AttestationEnabled: true,
		CreatedAt:          time.Now(),
	}).Error
	require.Nil(s.T(), err)
}

func (s *StoreTestSuite) TestActivationEvent() {
	s.createDevice("TRACK-TEST-0001", model.DeviceStatusOffline)

	monitor := monitor_ingester.NewMonitor()

	bus := eventbus.NewBus(s.config, s.db).
		WithMonitor(monitor)
	err := bus.Start()
	require.Nil(s.T(), err)

	store := NewStore(s.config).
		WithDB(s.db).
		WithEventBus(bus).
		WithMonitor(monitor)

	err = store.flush([]*Payload{{
		Sample: &model.MovementSample{
			DeviceID:   "TRACK-TEST-0001",
			Latitude:   52.23,
			Longitude:  21.01,
			CapturedAt: time.Now(),
		},
	}})
	require.Nil(s.T(), err)

	// Forces the final event flush
	bus.StopWait()

	var device model.Device
	err = s.db.First(&device, "device_id = ?", "TRACK-TEST-0001").Error
	require.Nil(s.T(), err)
	require.Equal(s.T(), model.DeviceStatusOnline, device.Status)

	var count int64
	err = s.db.Model(&model.DomainEvent{}).
		Where("device_id = ? AND kind = ?", "TRACK-TEST-0001", model.EventKindActivated).
		Count(&count).
		Error
	require.Nil(s.T(), err)
	require.EqualValues(s.T(), 1, count)
}

func (s *StoreTestSuite) TestPullerChecksDevice() {
	companion := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lat": 52.23, "lon": 21.01, "battery": 80}`))
	}))
	defer companion.Close()

	s.config.Ingester.PullerUrl = companion.URL
	s.config.Ingester.PullerDeviceId = "TRACK-TEST-0002"

	monitor := monitor_ingester.NewMonitor()

	bus := eventbus.NewBus(s.config, s.db).
		WithMonitor(monitor)
	err := bus.Start()
	require.Nil(s.T(), err)
	defer bus.StopWait()

	deviceRegistry := registry.NewRegistry(s.config, s.db, bus)

	output := make(chan *Payload, 1)
	puller := NewPuller(s.config).
		WithRegistry(deviceRegistry).
		WithMonitor(monitor).
		WithOutputChannel(output)

	// Not registered yet, the pulled sample is dropped
	err = puller.pull()
	require.Nil(s.T(), err)
	require.Len(s.T(), output, 0)
	require.EqualValues(s.T(), 1, monitor.GetReport().Ingester.Errors.UnknownDevice.Load())

	_, err = deviceRegistry.Register(s.ctx, &registry.RegisterInput{
		DeviceID: "TRACK-TEST-0002",
		Name:     "Companion phone",
	})
	require.Nil(s.T(), err)

	err = puller.pull()
	require.Nil(s.T(), err)
	require.Len(s.T(), output, 1)

	payload := <-output
	require.Equal(s.T(), "TRACK-TEST-0002", payload.Sample.DeviceID)
}
