package checksum

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// XXHash64 returns the hex-encoded xxhash64 digest of data. Used to
// fingerprint result files so unchanged re-exports are detectable.
func XXHash64(data []byte) string {
	digest := xxhash.New()
	digest.Write(data)

	return hex.EncodeToString(digest.Sum(nil))
}
