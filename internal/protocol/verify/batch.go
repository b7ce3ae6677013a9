package verify

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

// Item is one verification request of a batch. Exactly one of Compressed
// and Uncompressed must be set.
type Item struct {
	PublicKey    sqisign.PublicKey
	Message      []byte
	Compressed   *sqisign.CompressedSignature
	Uncompressed *sqisign.UncompressedSignature
}

// Result is the outcome of one Item. Err is set for malformed input.
type Result struct {
	Valid bool
	Err   error
}

func defaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// Verify checks a single item.
func (v *Verifier) Verify(item Item) (bool, error) {
	switch {
	case item.Compressed != nil && item.Uncompressed != nil:
		return false, errors.Wrap(sqisign.ErrInvalidEncoding, "item carries both signature forms")
	case item.Compressed != nil:
		return v.VerifyCompressed(item.PublicKey, *item.Compressed, item.Message)
	case item.Uncompressed != nil:
		return v.VerifyUncompressed(item.PublicKey, *item.Uncompressed, item.Message)
	}
	return false, errors.Wrap(sqisign.ErrInvalidEncoding, "item carries no signature")
}

// VerifyBatch verifies independent items concurrently. Results are in input
// order. Failures of single items are reported in their Result; the returned
// error is only set when ctx is done before every item was verified.
func (v *Verifier) VerifyBatch(ctx context.Context, items []Item) ([]Result, error) {
	results := make([]Result, len(items))

	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.SetLimit(v.workers)
	for i := range items {
		i := i
		errGroup.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := v.Verify(items[i])
			results[i] = Result{Valid: ok, Err: err}
			if err != nil {
				v.log.Debug().Err(err).Int("item", i).Msg("batch item rejected")
			}
			return nil
		})
	}
	if err := errGroup.Wait(); err != nil {
		return nil, errors.Wrap(err, "batch verification interrupted")
	}
	return results, nil
}
