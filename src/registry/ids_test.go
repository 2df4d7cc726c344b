package registry

import (
	"strconv"
	"strings"
	"time"

	"github.com/stretchr/testify/require"

	"testing"
)

func TestGenerateDeviceIdFormat(t *testing.T) {
	id := GenerateDeviceId("TRACK")

	require.Regexp(t, "^TRACK-[0-9A-Z]+-[0-9A-Z]{4}$", id)

	// Timestamp part decodes back to a recent time
	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)

	millis, err := strconv.ParseInt(strings.ToLower(parts[1]), 36, 64)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), time.UnixMilli(millis), time.Minute)
}

func TestGenerateDeviceIdPrefix(t *testing.T) {
	require.True(t, strings.HasPrefix(GenerateDeviceId("CARGO"), "CARGO-"))
}

func TestGenerateDeviceIdUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := GenerateDeviceId("TRACK")
		_, ok := seen[id]
		require.False(t, ok, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
