package streamer

import (
	"fmt"
	"time"

	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/task"

	"github.com/lib/pq"
)

// Streams data from postgres notification channel
// puts on output channel
type Streamer struct {
	*task.Task

	listener *pq.Listener

	channelName string

	Output chan string
}

func NewStreamer(config *config.Config) (self *Streamer) {
	self = new(Streamer)

	self.Output = make(chan string)

	self.Task = task.NewTask(config, "streamer").
		WithSubtaskFunc(self.run).
		WithOnBeforeStart(self.connect).
		WithOnStop(func() {
			close(self.Output)
		}).
		WithOnAfterStop(self.disconnect)

	return
}

func (self *Streamer) WithNotificationChannelName(name string) *Streamer {
	self.channelName = name
	return self
}

func (self *Streamer) WithCapacity(size int) *Streamer {
	self.Output = make(chan string, size)
	return self
}

func (self *Streamer) disconnect() {
	err := self.listener.Close()
	if err != nil {
		self.Log.WithError(err).Error("Failed to close listener")
	}
}

func (self *Streamer) connect() (err error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		self.Config.Database.Host,
		self.Config.Database.Port,
		self.Config.Database.User,
		self.Config.Database.Password,
		self.Config.Database.Name,
		self.Config.Database.SslMode)

	self.listener = pq.NewListener(dsn, 10*time.Second, time.Minute, self.onListenerEvent)

	err = self.listener.Listen(self.channelName)
	if err != nil {
		return
	}

	return
}

func (self *Streamer) onListenerEvent(event pq.ListenerEventType, err error) {
	if err != nil {
		self.Log.WithError(err).WithField("event", event).Error("Listener connection event")
	}
}

func (self *Streamer) run() (err error) {
	for {
		select {
		case <-self.Ctx.Done():
			// Stop() was called
			return nil
		case notification := <-self.listener.Notify:
			if notification == nil {
				// Connection got reset, notifications sent meanwhile are lost.
				// Periodic polling picks up whatever was missed.
				continue
			}
			self.Output <- notification.Extra
		case <-time.After(90 * time.Second):
			// Keep the connection alive through proxies that drop idle ones
			err = self.listener.Ping()
			if err != nil {
				self.Log.WithError(err).Error("Failed to ping listener connection")
			}
		}
	}
}
