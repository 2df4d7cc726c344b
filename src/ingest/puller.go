package ingest

import (
	"errors"

	"github.com/trackium/trackd/src/registry"
	"github.com/trackium/trackd/src/utils/build_info"
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"github.com/go-resty/resty/v2"
	cache "github.com/patrickmn/go-cache"
)

// Periodically pulls the current location from a companion app
// running next to the service. Used for smartphone devices that
// can't push reports themselves. The configured device goes through
// the same existence check as pushed reports, an unregistered device
// would poison the whole store batch with a foreign key violation.
type Puller struct {
	*task.Task

	client      *resty.Client
	registry    *registry.Registry
	deviceCache *cache.Cache
	monitor     monitoring.Monitor

	output chan *Payload
}

func NewPuller(config *config.Config) (self *Puller) {
	self = new(Puller)

	self.client = resty.New().
		SetBaseURL(config.Ingester.PullerUrl).
		SetTimeout(config.Ingester.PullerTimeout).
		SetHeader("User-Agent", "trackium/trackd/"+build_info.Version)

	self.deviceCache = cache.New(config.Ingester.DeviceCacheExpiration, config.Ingester.DeviceCacheCleanupInterval)

	self.Task = task.NewTask(config, "puller").
		WithPeriodicSubtaskFunc(config.Ingester.PullerInterval, self.pull)

	return
}

func (self *Puller) WithRegistry(registry *registry.Registry) *Puller {
	self.registry = registry
	return self
}

func (self *Puller) WithOutputChannel(payloads chan *Payload) *Puller {
	self.output = payloads
	return self
}

func (self *Puller) WithMonitor(monitor monitoring.Monitor) *Puller {
	self.monitor = monitor
	return self
}

func (self *Puller) pull() (err error) {
	resp, err := self.client.R().
		SetContext(self.Ctx).
		ForceContentType("application/json").
		SetResult(&LocationPayload{}).
		Get("")
	if err != nil {
		self.Log.WithError(err).Warn("Failed to pull location from companion")
		self.monitor.GetReport().Ingester.Errors.PullFailure.Inc()
		return nil
	}

	if !resp.IsSuccess() {
		self.Log.WithField("status", resp.StatusCode()).Warn("Companion returned bad status")
		self.monitor.GetReport().Ingester.Errors.PullFailure.Inc()
		return nil
	}

	payload, ok := resp.Result().(*LocationPayload)
	if !ok {
		self.monitor.GetReport().Ingester.Errors.PullFailure.Inc()
		return nil
	}

	// Companion reports for the one configured device
	payload.DeviceID = self.Config.Ingester.PullerDeviceId

	err = payload.Validate()
	if err != nil {
		self.Log.WithError(err).Warn("Companion returned invalid payload")
		self.monitor.GetReport().Ingester.Errors.PullFailure.Inc()
		return nil
	}

	err = self.checkDevice(payload.DeviceID)
	if errors.Is(err, model.ErrNotFound) {
		self.Log.WithField("device_id", payload.DeviceID).Warn("Companion device is not registered, dropping sample")
		self.monitor.GetReport().Ingester.Errors.UnknownDevice.Inc()
		return nil
	}
	if err != nil {
		self.Log.WithError(err).Error("Failed to check companion device")
		self.monitor.GetReport().Ingester.Errors.PullFailure.Inc()
		return nil
	}

	self.monitor.GetReport().Ingester.State.SamplesPulled.Inc()

	out := &Payload{
		Sample:  payload.Sample(),
		Battery: payload.Battery,
		Signal:  payload.Signal,
	}

	select {
	case <-self.StopChannel:
	case self.output <- out:
	}

	return nil
}

func (self *Puller) checkDevice(deviceId string) (err error) {
	_, ok := self.deviceCache.Get(deviceId)
	if ok {
		return nil
	}

	_, err = self.registry.Get(self.Ctx, deviceId)
	if err != nil {
		return
	}

	self.deviceCache.SetDefault(deviceId, struct{}{})
	return nil
}
