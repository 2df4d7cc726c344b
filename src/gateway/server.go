package gateway

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
	"gorm.io/gorm"
)

// Rest API server, serves the device management endpoints
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	db       *gorm.DB
	registry *registry.Registry
	monitor  monitoring.Monitor
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "gateway-server").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	if !config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	self.Router = gin.New()
	self.Router.Use(gin.Recovery())

	self.httpServer = &http.Server{
		Addr:              self.Config.Gateway.ListenAddress,
		Handler:           self.Router,
		ReadHeaderTimeout: self.Config.Gateway.ServerRequestTimeout,
	}

	return
}

func (self *Server) WithDB(db *gorm.DB) *Server {
	self.db = db
	return self
}

func (self *Server) WithRegistry(registry *registry.Registry) *Server {
	self.registry = registry
	return self
}

func (self *Server) WithMonitor(monitor monitoring.Monitor) *Server {
	self.monitor = monitor
	return self
}

func (self *Server) run() (err error) {
	v1 := self.Router.Group("v1")
	{
		v1.GET("devices", self.onListDevices)
		v1.POST("devices", self.onRegisterDevice)
		v1.GET("devices/:id", self.onGetDevice)
		v1.DELETE("devices/:id", self.onRemoveDevice)
		v1.GET("devices/:id/history", self.onGetHistory)
		v1.POST("devices/:id/lock", self.onSetLock)
		v1.POST("devices/:id/attestation", self.onSetAttestation)
		v1.POST("devices/:id/prove", self.onRequestProof)
		v1.GET("statistics", self.onGetStatistics)
	}

	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start gateway server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown gateway server")
		return
	}
}

func (self *Server) handleError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
	case errors.Is(err, model.ErrDuplicateDevice):
		c.JSON(http.StatusConflict, gin.H{"error": "device already registered"})
	case errors.Is(err, model.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflicting update"})
	case errors.Is(err, model.ErrNoData):
		c.JSON(http.StatusConflict, gin.H{"error": "no unattested sample"})
	default:
		self.Log.WithError(err).Error("Request failed")
		self.monitor.GetReport().Gateway.Errors.DbError.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
