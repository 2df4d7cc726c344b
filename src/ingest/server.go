package ingest

import (
	"context"
	"errors"
	"net/http"

	"github.com/trackium/trackd/src/registry"
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/model"
	"github.com/trackium/trackd/src/utils/monitoring"
	"github.com/trackium/trackd/src/utils/task"

	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
)

// Accepts location reports over REST and queues them for storing.
// Device existence is checked against a short-lived cache so the
// hot path doesn't hit the db for every report.
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	registry    *registry.Registry
	deviceCache *cache.Cache
	monitor     monitoring.Monitor

	output chan *Payload
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.deviceCache = cache.New(config.Ingester.DeviceCacheExpiration, config.Ingester.DeviceCacheCleanupInterval)

	self.Task = task.NewTask(config, "ingest-server").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	if !config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	self.Router = gin.New()
	self.Router.Use(gin.Recovery())

	self.httpServer = &http.Server{
		Addr:              self.Config.Ingester.ListenAddress,
		Handler:           self.Router,
		ReadHeaderTimeout: self.Config.Ingester.ServerRequestTimeout,
	}

	return
}

func (self *Server) WithRegistry(registry *registry.Registry) *Server {
	self.registry = registry
	return self
}

func (self *Server) WithOutputChannel(payloads chan *Payload) *Server {
	self.output = payloads
	return self
}

func (self *Server) WithMonitor(monitor monitoring.Monitor) *Server {
	self.monitor = monitor
	return self
}

func (self *Server) run() (err error) {
	v1 := self.Router.Group("v1")
	{
		v1.POST("location", self.onLocation)
	}

	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start ingestion server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown ingestion server")
		return
	}
}

func (self *Server) onLocation(c *gin.Context) {
	self.monitor.GetReport().Ingester.State.SamplesReceived.Inc()

	var payload LocationPayload
	err := c.ShouldBindJSON(&payload)
	if err != nil {
		self.monitor.GetReport().Ingester.Errors.PayloadValidation.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	err = payload.Validate()
	if err != nil {
		self.monitor.GetReport().Ingester.Errors.PayloadValidation.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = self.checkDevice(c.Request.Context(), payload.DeviceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			self.monitor.GetReport().Ingester.Errors.UnknownDevice.Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown device"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "device lookup failed"})
		return
	}

	out := &Payload{
		Sample:  payload.Sample(),
		Battery: payload.Battery,
		Signal:  payload.Signal,
	}

	select {
	case <-self.StopChannel:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shutting down"})
	case <-c.Request.Context().Done():
	case self.output <- out:
		c.JSON(http.StatusAccepted, gin.H{"accepted": true})
	}
}

func (self *Server) checkDevice(ctx context.Context, deviceId string) (err error) {
	_, ok := self.deviceCache.Get(deviceId)
	if ok {
		return nil
	}

	_, err = self.registry.Get(ctx, deviceId)
	if err != nil {
		return
	}

	self.deviceCache.SetDefault(deviceId, struct{}{})
	return nil
}
