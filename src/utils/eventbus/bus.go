package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"github.com/rs/xid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStopping = errors.New("event bus is stopping")

// Accepts domain events, persists them in batches and fans them out
// to in-process subscribers. Optionally forwards them to Redis.
// An event handed to Publish is durable once the store flushes,
// subscriber delivery is best-effort.
type Bus struct {
	*task.Task

	db      *gorm.DB
	monitor monitoring.Monitor

	input     chan *model.DomainEvent
	storeChan chan *model.DomainEvent
	redisChan chan *model.DomainEvent

	store          *task.Hole[*model.DomainEvent]
	redisPublisher *RedisPublisher[*model.DomainEvent]

	mtx         sync.RWMutex
	subscribers []chan *model.DomainEvent
}

func NewBus(config *config.Config, db *gorm.DB) (self *Bus) {
	self = new(Bus)
	self.db = db

	self.input = make(chan *model.DomainEvent, config.EventBus.QueueSize)
	self.storeChan = make(chan *model.DomainEvent, config.EventBus.QueueSize)

	self.store = task.NewHole[*model.DomainEvent](config, "eventbus-store").
		WithBatchSize(config.EventBus.StoreBatchSize).
		WithInputChannel(self.storeChan).
		WithOnFlush(config.EventBus.StoreInterval, self.flush).
		WithBackoff(config.EventBus.StoreBackoffMaxElapsedTime, config.EventBus.StoreBackoffMaxInterval)

	self.Task = task.NewTask(config, "eventbus").
		WithSubtask(self.store.Task).
		WithSubtaskFunc(self.run)

	if !config.Redis.Disabled {
		self.redisChan = make(chan *model.DomainEvent, config.Redis.MaxQueueSize)
		self.redisPublisher = NewRedisPublisher[*model.DomainEvent](config, "eventbus-redis").
			WithChannelName(config.Redis.ChannelName).
			WithInputChannel(self.redisChan)
		self.Task = self.Task.WithSubtask(self.redisPublisher.Task)
	}

	return
}

func (self *Bus) WithMonitor(monitor monitoring.Monitor) *Bus {
	self.monitor = monitor
	if self.redisPublisher != nil {
		self.redisPublisher.WithMonitor(monitor)
	}
	return self
}

// Hands the event over for persisting and fanout.
// Blocks when the bus is saturated.
func (self *Bus) Publish(ctx context.Context, event *model.DomainEvent) (err error) {
	if event.ID == "" {
		event.ID = xid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	select {
	case <-self.StopChannel:
		return ErrStopping
	case <-ctx.Done():
		return ctx.Err()
	case self.input <- event:
		return nil
	}
}

// Returns a channel that receives every published event.
// There's no unsubscribe, subscribers live as long as the bus.
func (self *Bus) Subscribe() <-chan *model.DomainEvent {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	ch := make(chan *model.DomainEvent, self.Config.EventBus.SubscriberQueueSize)
	self.subscribers = append(self.subscribers, ch)
	return ch
}

func (self *Bus) run() (err error) {
	for {
		select {
		case <-self.StopChannel:
			self.shutdown()
			return nil
		case event := <-self.input:
			self.dispatch(event)
		}
	}
}

func (self *Bus) dispatch(event *model.DomainEvent) {
	self.storeChan <- event

	if self.redisChan != nil {
		self.redisChan <- event
	}

	self.mtx.RLock()
	for _, subscriber := range self.subscribers {
		select {
		case subscriber <- event:
		default:
			self.Log.WithField("event_id", event.ID).Warn("Subscriber queue full, dropping event")
		}
	}
	self.mtx.RUnlock()
}

// Forwards what's still buffered, then closes the downstream channels.
// Publish keeps the input channel open, once StopChannel is closed it
// rejects new events instead.
func (self *Bus) shutdown() {
	for {
		select {
		case event := <-self.input:
			self.dispatch(event)
			continue
		default:
		}
		break
	}

	close(self.storeChan)
	if self.redisChan != nil {
		close(self.redisChan)
	}

	self.mtx.Lock()
	for _, subscriber := range self.subscribers {
		close(subscriber)
	}
	self.subscribers = nil
	self.mtx.Unlock()
}

func (self *Bus) flush(events []*model.DomainEvent) (err error) {
	if len(events) == 0 {
		return nil
	}

	// Not bound to the task context, the final flush runs while stopping
	err = self.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&events).
		Error
	if err != nil {
		return
	}

	return
}
