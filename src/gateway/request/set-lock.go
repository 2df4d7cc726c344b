package request

type SetLock struct {
	Locked *bool `json:"locked" binding:"required"`
}

type SetAttestation struct {
	Enabled *bool `json:"enabled" binding:"required"`
}
