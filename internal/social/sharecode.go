package social

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// shareCodeAlphabet avoids confusable characters (0/O, 1/I).
const shareCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomChars(n int) string {
	max := big.NewInt(int64(len(shareCodeAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken; fall
			// back to something unique rather than panicking.
			return uuid.New().String()[:n]
		}
		out[i] = shareCodeAlphabet[idx.Int64()]
	}
	return string(out)
}

// NewShareCode generates a share code like "ABC-234-XYZ" that others use
// to request following a profile.
func NewShareCode() string {
	return randomChars(3) + "-" + randomChars(3) + "-" + randomChars(3)
}

// NewManagementCode generates a management code like "MGR-ABCD-2345".
func NewManagementCode() string {
	return "MGR-" + randomChars(4) + "-" + randomChars(4)
}
