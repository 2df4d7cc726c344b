package task

import (
	"sync"
	"time"

	"github.com/trackium/trackd/src/utils/config"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"testing"
)

func TestHoleTestSuite(t *testing.T) {
	suite.Run(t, new(HoleTestSuite))
}

type HoleTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *HoleTestSuite) SetupSuite() {
	s.config = config.Default()
}

type flushRecorder struct {
	mtx     sync.Mutex
	batches [][]int
}

func (self *flushRecorder) record(batch []int) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.batches = append(self.batches, batch)
	return nil
}

func (self *flushRecorder) all() (out []int) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	for _, batch := range self.batches {
		out = append(out, batch...)
	}
	return
}

func (s *HoleTestSuite) TestFlushOnBatchSize() {
	recorder := new(flushRecorder)
	input := make(chan int)

	hole := NewHole[int](s.config, "test-hole").
		WithBatchSize(3).
		WithInputChannel(input).
		WithOnFlush(time.Hour, recorder.record)

	err := hole.Start()
	require.Nil(s.T(), err)

	for i := 0; i < 3; i++ {
		input <- i
	}

	require.Eventually(s.T(), func() bool {
		return len(recorder.all()) == 3
	}, 5*time.Second, 10*time.Millisecond)

	close(input)
	hole.StopWait()

	require.Equal(s.T(), []int{0, 1, 2}, recorder.all())
}

func (s *HoleTestSuite) TestFinalFlushOnClosedInput() {
	recorder := new(flushRecorder)
	input := make(chan int)

	hole := NewHole[int](s.config, "test-hole").
		WithBatchSize(100).
		WithInputChannel(input).
		WithOnFlush(time.Hour, recorder.record)

	err := hole.Start()
	require.Nil(s.T(), err)

	input <- 7
	input <- 8
	close(input)

	hole.StopWait()

	require.Equal(s.T(), []int{7, 8}, recorder.all())
}

func (s *HoleTestSuite) TestPeriodicFlush() {
	recorder := new(flushRecorder)
	input := make(chan int)

	hole := NewHole[int](s.config, "test-hole").
		WithBatchSize(100).
		WithInputChannel(input).
		WithOnFlush(50*time.Millisecond, recorder.record)

	err := hole.Start()
	require.Nil(s.T(), err)

	input <- 42

	require.Eventually(s.T(), func() bool {
		return len(recorder.all()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	close(input)
	hole.StopWait()
}
