package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/trackium/trackd/src/gateway/request"
	"github.com/trackium/trackd/src/gateway/response"
	"github.com/trackium/trackd/src/prove"
	"github.com/trackium/trackd/src/registry"
	"github.com/trackium/trackd/src/utils/model"

	"github.com/gin-gonic/gin"
)

func (self *Server) onListDevices(c *gin.Context) {
	var in request.ListDevices
	err := c.ShouldBindQuery(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	devices, err := self.registry.List(c.Request.Context(), in.Category)
	if err != nil {
		self.handleError(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.DevicesReturned.Add(uint64(len(devices)))
	c.JSON(http.StatusOK, response.DevicesToResponse(devices))
}

func (self *Server) onRegisterDevice(c *gin.Context) {
	var in request.RegisterDevice
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := self.registry.Register(c.Request.Context(), &registry.RegisterInput{
		DeviceID:           in.DeviceID,
		Name:               in.Name,
		Class:              model.DeviceClass(in.Class),
		TransportMode:      in.TransportMode,
		Category:           in.Category,
		Location:           in.Location,
		AttestationEnabled: in.AttestationEnabled,
	})
	if err != nil {
		self.handleError(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.DevicesRegistered.Inc()
	c.JSON(http.StatusCreated, response.DeviceToResponse(device))
}

func (self *Server) onGetDevice(c *gin.Context) {
	deviceId := c.Param("id")

	device, err := self.registry.Get(c.Request.Context(), deviceId)
	if err != nil {
		self.handleError(c, err)
		return
	}

	out := response.DeviceDetail{
		Device:       response.DeviceToResponse(device),
		Attestations: []response.Attestation{},
		Events:       []response.Event{},
	}

	var latest model.MovementSample
	err = self.db.WithContext(c.Request.Context()).
		Table(model.TableMovementSample).
		Where("device_id = ?", deviceId).
		Order("id DESC").
		Limit(1).
		Find(&latest).
		Error
	if err != nil {
		self.handleError(c, err)
		return
	}
	if latest.ID != 0 {
		sample := response.SampleToResponse(&latest)
		out.LatestSample = &sample
	}

	var attestations []model.Attestation
	err = self.db.WithContext(c.Request.Context()).
		Table(model.TableAttestation).
		Where("device_id = ?", deviceId).
		Order("id DESC").
		Limit(self.Config.Gateway.DefaultHistoryLimit).
		Find(&attestations).
		Error
	if err != nil {
		self.handleError(c, err)
		return
	}
	out.Attestations = response.AttestationsToResponse(attestations)

	var events []model.DomainEvent
	err = self.db.WithContext(c.Request.Context()).
		Table(model.TableDomainEvent).
		Where("device_id = ?", deviceId).
		Order("created_at DESC").
		Limit(self.Config.Gateway.DefaultHistoryLimit).
		Find(&events).
		Error
	if err != nil {
		self.handleError(c, err)
		return
	}
	out.Events = response.EventsToResponse(events)

	c.JSON(http.StatusOK, &out)
}

func (self *Server) onRemoveDevice(c *gin.Context) {
	err := self.registry.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		self.handleError(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.DevicesRemoved.Inc()
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func (self *Server) onGetHistory(c *gin.Context) {
	deviceId := c.Param("id")

	var in request.GetHistory
	err := c.ShouldBindQuery(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if in.Limit <= 0 {
		in.Limit = self.Config.Gateway.DefaultHistoryLimit
	}
	if in.Limit > self.Config.Gateway.MaxHistoryLimit {
		in.Limit = self.Config.Gateway.MaxHistoryLimit
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	// Returns 404 for unknown devices instead of an empty list
	_, err = self.registry.Get(c.Request.Context(), deviceId)
	if err != nil {
		self.handleError(c, err)
		return
	}

	var samples []model.MovementSample
	err = self.db.WithContext(c.Request.Context()).
		Table(model.TableMovementSample).
		Where("device_id = ?", deviceId).
		Order("id DESC").
		Limit(in.Limit).
		Offset(in.Offset).
		Find(&samples).
		Error
	if err != nil {
		self.handleError(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.SamplesReturned.Add(uint64(len(samples)))
	c.JSON(http.StatusOK, response.SamplesToResponse(samples))
}

func (self *Server) onSetLock(c *gin.Context) {
	var in request.SetLock
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = self.registry.SetLock(c.Request.Context(), c.Param("id"), *in.Locked)
	if err != nil {
		self.handleError(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.LockToggles.Inc()
	c.JSON(http.StatusOK, gin.H{"locked": *in.Locked})
}

func (self *Server) onSetAttestation(c *gin.Context) {
	var in request.SetAttestation
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = self.registry.SetAttestationEnabled(c.Request.Context(), c.Param("id"), *in.Enabled)
	if err != nil {
		self.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attestationEnabled": *in.Enabled})
}

func (self *Server) onRequestProof(c *gin.Context) {
	deviceId := c.Param("id")

	_, err := self.registry.Get(c.Request.Context(), deviceId)
	if err != nil {
		self.handleError(c, err)
		return
	}

	var hasUnattested bool
	err = self.db.WithContext(c.Request.Context()).
		Raw("SELECT EXISTS(SELECT 1 FROM movement_samples WHERE device_id = ? AND attested = FALSE)", deviceId).
		Scan(&hasUnattested).
		Error
	if err != nil {
		self.handleError(c, err)
		return
	}
	if !hasUnattested {
		self.handleError(c, model.ErrNoData)
		return
	}

	payload, err := json.Marshal(&prove.AttestationRequest{DeviceID: deviceId})
	if err != nil {
		self.handleError(c, err)
		return
	}

	err = self.db.WithContext(c.Request.Context()).
		Exec("SELECT pg_notify(?, ?)", self.Config.Prover.NotifierChannelName, string(payload)).
		Error
	if err != nil {
		self.monitor.GetReport().Gateway.Errors.PublishError.Inc()
		self.handleError(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.ProofRequests.Inc()
	c.JSON(http.StatusAccepted, gin.H{"requested": true})
}

func (self *Server) onGetStatistics(c *gin.Context) {
	var out response.Statistics
	db := self.db.WithContext(c.Request.Context())

	queries := []struct {
		dst   *int64
		query string
	}{
		{&out.Devices, "SELECT COUNT(*) FROM devices WHERE deleted_at IS NULL"},
		{&out.OnlineDevices, "SELECT COUNT(*) FROM devices WHERE status = 'online' AND deleted_at IS NULL"},
		{&out.Samples, "SELECT COUNT(*) FROM movement_samples"},
		{&out.AttestedSamples, "SELECT COUNT(*) FROM movement_samples WHERE attested = TRUE"},
		{&out.Attestations, "SELECT COUNT(*) FROM attestations"},
		{&out.VerifiedAttestations, "SELECT COUNT(*) FROM attestations WHERE verified = TRUE"},
		{&out.Events, "SELECT COUNT(*) FROM domain_events"},
	}
	for _, q := range queries {
		err := db.Raw(q.query).Scan(q.dst).Error
		if err != nil {
			self.handleError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, &out)
}
