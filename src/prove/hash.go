package prove

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/trackium/trackd/src/utils/model"
)

// Hex encoded SHA-256 over the canonical sample rendering:
// deviceId|lat|lon|altitude|timestampMillis
// Floats are rendered with the shortest exact representation so the
// verifier reproduces the same string from the stored sample.
func ContentHash(sample *model.MovementSample) string {
	parts := []string{
		sample.DeviceID,
		strconv.FormatFloat(sample.Latitude, 'f', -1, 64),
		strconv.FormatFloat(sample.Longitude, 'f', -1, 64),
		strconv.FormatFloat(sample.Altitude, 'f', -1, 64),
		strconv.FormatInt(sample.CapturedAt.UnixMilli(), 10),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
