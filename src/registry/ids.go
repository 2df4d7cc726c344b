package registry

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Generates a device id like TRACK-LX3K2M9A-7Q2F.
// Millisecond timestamp in base36 keeps ids roughly sortable,
// the random suffix disambiguates same-millisecond registrations.
func GenerateDeviceId(prefix string) string {
	millis := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}

	return fmt.Sprintf("%s-%s-%s", prefix, millis, string(suffix))
}
