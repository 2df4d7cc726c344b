package prove

import (
	"time"

	"github.com/trackium/trackd/src/utils/model"

	"github.com/stretchr/testify/require"

	"testing"
)

func testSample() *model.MovementSample {
	return &model.MovementSample{
		DeviceID:   "TRACK-LX3K2M9A-7Q2F",
		Latitude:   52.2297,
		Longitude:  21.0122,
		Altitude:   113.5,
		CapturedAt: time.UnixMilli(1756351000000),
	}
}

func TestContentHashDeterministic(t *testing.T) {
	first := ContentHash(testSample())
	second := ContentHash(testSample())

	require.Equal(t, first, second)
	require.Len(t, first, 64)
	require.Regexp(t, "^[0-9a-f]{64}$", first)
}

func TestContentHashSensitivity(t *testing.T) {
	base := ContentHash(testSample())

	cases := []struct {
		name   string
		mutate func(*model.MovementSample)
	}{
		{"device id", func(s *model.MovementSample) { s.DeviceID = "TRACK-LX3K2M9A-7Q2G" }},
		{"latitude", func(s *model.MovementSample) { s.Latitude += 0.0000001 }},
		{"longitude", func(s *model.MovementSample) { s.Longitude = -s.Longitude }},
		{"altitude", func(s *model.MovementSample) { s.Altitude = 0 }},
		{"timestamp", func(s *model.MovementSample) { s.CapturedAt = s.CapturedAt.Add(time.Millisecond) }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sample := testSample()
			c.mutate(sample)
			require.NotEqual(t, base, ContentHash(sample))
		})
	}
}

func TestContentHashIgnoresQualityFields(t *testing.T) {
	base := ContentHash(testSample())

	sample := testSample()
	sample.Speed = 99
	sample.Accuracy = 50
	sample.Attested = true

	require.Equal(t, base, ContentHash(sample))
}

func TestContentHashSubMillisecondTruncated(t *testing.T) {
	base := ContentHash(testSample())

	sample := testSample()
	sample.CapturedAt = sample.CapturedAt.Add(500 * time.Microsecond)

	require.Equal(t, base, ContentHash(sample))
}
