// Package keygen mints storage object keys.
//
// A key is hex(16 random bytes) + "-" + the caller's filename. The
// 128-bit random prefix makes collisions across the object population
// negligible, so the filename itself needs no uniqueness. The filename
// is appended verbatim; keys are only ever used as opaque bucket keys,
// never as filesystem paths.
package keygen

import (
	"crypto/rand"
	"encoding/hex"
)

// PrefixLen is the length of the random hex prefix.
const PrefixLen = 32

// Key returns a collision-resistant storage key for filename.
func Key(filename string) string {
	buf := make([]byte, PrefixLen/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the OS entropy source is broken;
		// nothing sensible can continue from there.
		panic(err)
	}
	return hex.EncodeToString(buf) + "-" + filename
}
