package registry

import (
	"context"
	"testing"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/eventbus"
	"github.com/trackium/trackd/src/utils/model"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

// Runs against the configured postgres, skipped when it's unreachable
type RegistryTestSuite struct {
	suite.Suite
	ctx      context.Context
	cancel   context.CancelFunc
	config   *config.Config
	db       *gorm.DB
	bus      *eventbus.Bus
	registry *Registry
}

func (s *RegistryTestSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.config = config.Default()

	db, err := model.NewConnection(s.ctx, s.config, "test")
	if err != nil {
		s.T().Skipf("postgres not available: %v", err)
	}
	s.db = db

	s.bus = eventbus.NewBus(s.config, s.db)
	err = s.bus.Start()
	require.Nil(s.T(), err)

	s.registry = NewRegistry(s.config, s.db, s.bus)
}

func (s *RegistryTestSuite) TearDownSuite() {
	if s.bus != nil {
		s.bus.StopWait()
	}
	s.cancel()
}

func (s *RegistryTestSuite) SetupTest() {
	err := s.db.Exec("TRUNCATE domain_events, attestations, movement_samples, devices CASCADE").Error
	require.Nil(s.T(), err)
}

func (s *RegistryTestSuite) TestRegisterDuplicate() {
	input := &RegisterInput{
		DeviceID: "TRACK-TEST-0001",
		Name:     "Container 1",
	}

	device, err := s.registry.Register(s.ctx, input)
	require.Nil(s.T(), err)
	require.Equal(s.T(), "TRACK-TEST-0001", device.DeviceID)

	// Colliding id is rejected, the existing device stays intact
	_, err = s.registry.Register(s.ctx, &RegisterInput{
		DeviceID: "TRACK-TEST-0001",
		Name:     "Container 2",
	})
	require.ErrorIs(s.T(), err, model.ErrDuplicateDevice)

	device, err = s.registry.Get(s.ctx, "TRACK-TEST-0001")
	require.Nil(s.T(), err)
	require.Equal(s.T(), "Container 1", device.Name)
}

func (s *RegistryTestSuite) TestListAllLiteral() {
	_, err := s.registry.Register(s.ctx, &RegisterInput{Name: "Truck", Category: "fleet"})
	require.Nil(s.T(), err)
	_, err = s.registry.Register(s.ctx, &RegisterInput{Name: "Wagon", Category: "rail"})
	require.Nil(s.T(), err)

	devices, err := s.registry.List(s.ctx, "fleet")
	require.Nil(s.T(), err)
	require.Len(s.T(), devices, 1)

	// "all" is a keyword, not a category name
	devices, err = s.registry.List(s.ctx, "all")
	require.Nil(s.T(), err)
	require.Len(s.T(), devices, 2)

	devices, err = s.registry.List(s.ctx, "")
	require.Nil(s.T(), err)
	require.Len(s.T(), devices, 2)
}

func (s *RegistryTestSuite) TestSetLockIdempotent() {
	device, err := s.registry.Register(s.ctx, &RegisterInput{Name: "Lockable"})
	require.Nil(s.T(), err)

	err = s.registry.SetLock(s.ctx, device.DeviceID, true)
	require.Nil(s.T(), err)

	// Setting the state the device already holds is a no-op
	err = s.registry.SetLock(s.ctx, device.DeviceID, true)
	require.Nil(s.T(), err)

	reloaded, err := s.registry.Get(s.ctx, device.DeviceID)
	require.Nil(s.T(), err)
	require.True(s.T(), reloaded.Locked)

	err = s.registry.SetLock(s.ctx, device.DeviceID, false)
	require.Nil(s.T(), err)

	err = s.registry.SetLock(s.ctx, "TRACK-TEST-MISSING", true)
	require.ErrorIs(s.T(), err, model.ErrNotFound)
}
