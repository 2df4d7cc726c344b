package report

type Report struct {
	Ingester       *IngesterReport       `json:"ingester,omitempty"`
	Registry       *RegistryReport       `json:"registry,omitempty"`
	Prover         *ProverReport         `json:"prover,omitempty"`
	Verifier       *VerifierReport       `json:"verifier,omitempty"`
	BlockMonitor   *BlockMonitorReport   `json:"block_monitor,omitempty"`
	Gateway        *GatewayReport        `json:"gateway,omitempty"`
	RedisPublisher *RedisPublisherReport `json:"redis_publisher,omitempty"`
}
