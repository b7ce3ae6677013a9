// Package challenge maps messages to challenge scalars.
package challenge

import (
	"crypto/sha256"
	"math/big"
)

// HashToInteger computes SHA-256(message), read as a big-endian integer,
// reduced mod 2^bits. Digests shorter than bits are returned whole.
func HashToInteger(message []byte, bits int) *big.Int {
	// 1. Hash the message
	h := sha256.Sum256(message)

	// 2. Interpret the digest as a big-endian integer
	e := new(big.Int).SetBytes(h[:])

	// 3. Keep the low bits
	if bits < 0 {
		bits = 0
	}
	if bits < e.BitLen() {
		mask := new(big.Int).Lsh(big.NewInt(1), uint(bits))
		mask.Sub(mask, big.NewInt(1))
		e.And(e, mask)
	}
	return e
}
