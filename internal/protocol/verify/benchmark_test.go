package verify

import (
	"context"
	"fmt"
	"testing"

	"github.com/smallyu/go-sqisign/internal/crypto/isogeny"
)

// BenchmarkVerifyCompressed benchmarks a full compressed verification.
func BenchmarkVerifyCompressed(b *testing.B) {
	fx := honest(b)
	v := newVerifier(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := v.VerifyCompressed(fx.pk, fx.compressed, message); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkVerifyUncompressed compares the chain strategies on the
// uncompressed form, which is dominated by isogeny chains.
func BenchmarkVerifyUncompressed(b *testing.B) {
	fx := honest(b)
	for _, s := range []isogeny.Strategy{isogeny.Naive{}, isogeny.Balanced{}} {
		v := newVerifier(b, WithStrategy(s))
		b.Run(fmt.Sprint(s), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := v.VerifyUncompressed(fx.pk, fx.uncompressed, message); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkVerifyBatch benchmarks concurrent verification of 8 signatures.
func BenchmarkVerifyBatch(b *testing.B) {
	fx := honest(b)
	v := newVerifier(b)
	items := make([]Item, 8)
	for i := range items {
		items[i] = Item{PublicKey: fx.pk, Message: message, Compressed: &fx.compressed}
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := v.VerifyBatch(context.Background(), items); err != nil {
			b.Fatal(err)
		}
	}
}
