package task

import (
	"github.com/trackium/trackd/src/utils/config"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"testing"
)

func TestTaskTestSuite(t *testing.T) {
	suite.Run(t, new(TaskTestSuite))
}

type TaskTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *TaskTestSuite) SetupSuite() {
	s.config = config.Default()
}

func (s *TaskTestSuite) TestLifecycle() {
	task := NewTask(s.config, "test-task")

	err := task.Start()
	require.Nil(s.T(), err)

	task.StopWait()

	<-task.Ctx.Done()
	require.True(s.T(), task.IsStopping.Load())
}

func (s *TaskTestSuite) TestHooksRunInOrder() {
	var order []string

	task := NewTask(s.config, "test-task").
		WithOnBeforeStart(func() error {
			order = append(order, "before-start")
			return nil
		}).
		WithOnAfterStop(func() {
			order = append(order, "after-stop")
		})

	err := task.Start()
	require.Nil(s.T(), err)
	task.StopWait()

	require.Equal(s.T(), []string{"before-start", "after-stop"}, order)
}

func (s *TaskTestSuite) TestSubtaskStoppedWithParent() {
	child := NewTask(s.config, "child-task")
	parent := NewTask(s.config, "parent-task").
		WithSubtask(child)

	err := parent.Start()
	require.Nil(s.T(), err)

	parent.StopWait()

	<-child.Ctx.Done()
	require.True(s.T(), child.IsStopping.Load())
}

func (s *TaskTestSuite) TestConditionalSubtaskSkipped() {
	child := NewTask(s.config, "child-task")
	parent := NewTask(s.config, "parent-task").
		WithConditionalSubtask(false, child)

	err := parent.Start()
	require.Nil(s.T(), err)

	parent.StopWait()

	// Child was never started
	require.False(s.T(), child.IsStopping.Load())
	select {
	case <-child.Ctx.Done():
		s.T().Fatal("child context should not be cancelled")
	default:
	}
}

func (s *TaskTestSuite) TestWorkerPool() {
	results := make(chan int, 10)

	task := NewTask(s.config, "test-task").
		WithWorkerPool(2, 10)

	// Keeps the task alive until Stop, like the run loops do
	task.WithSubtaskFunc(func() error {
		<-task.StopChannel
		return nil
	})

	err := task.Start()
	require.Nil(s.T(), err)

	for i := 0; i < 10; i++ {
		i := i
		task.SubmitToWorker(func() {
			results <- i
		})
	}

	seen := make(map[int]struct{})
	for i := 0; i < 10; i++ {
		seen[<-results] = struct{}{}
	}
	require.Len(s.T(), seen, 10)

	task.StopWait()
}

func (s *TaskTestSuite) TestStopChannelClosed() {
	task := NewTask(s.config, "test-task")

	err := task.Start()
	require.Nil(s.T(), err)

	task.StopWait()

	// Closed channel, receive does not block
	_, ok := <-task.StopChannel
	require.False(s.T(), ok)
}
