package response

import (
	"time"

	"github.com/trackium/trackd/src/utils/model"
)

type Attestation struct {
	ID          int64      `json:"id"`
	SampleID    int64      `json:"sampleId"`
	Kind        string     `json:"kind"`
	ContentHash string     `json:"contentHash"`
	TxReference string     `json:"txReference"`
	Verified    bool       `json:"verified"`
	BlockHeight *int64     `json:"blockHeight,omitempty"`
	CheckedAt   *time.Time `json:"checkedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func AttestationsToResponse(attestations []model.Attestation) []Attestation {
	out := make([]Attestation, len(attestations))
	for i := range attestations {
		a := &attestations[i]
		out[i] = Attestation{
			ID:          a.ID,
			SampleID:    a.SampleID,
			Kind:        a.Kind,
			ContentHash: a.ContentHash,
			TxReference: a.TxReference,
			Verified:    a.Verified,
			CreatedAt:   a.CreatedAt,
		}
		if a.BlockHeight.Valid {
			height := a.BlockHeight.Int64
			out[i].BlockHeight = &height
		}
		if a.CheckedAt.Valid {
			checkedAt := a.CheckedAt.Time
			out[i].CheckedAt = &checkedAt
		}
	}
	return out
}
