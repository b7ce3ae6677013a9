package main

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/smallyu/go-sqisign/internal/crypto/isogeny"
	"github.com/smallyu/go-sqisign/internal/encoding"
	"github.com/smallyu/go-sqisign/internal/metrics"
	"github.com/smallyu/go-sqisign/internal/protocol/verify"
	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

func createLogger(c *cli.Context) *zerolog.Logger {
	level, err := zerolog.ParseLevel(c.String("loglevel"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	var writer io.Writer
	switch c.String("log-format") {
	case "json":
		writer = c.App.ErrWriter
	default:
		writer = zerolog.ConsoleWriter{
			Out:        c.App.ErrWriter,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}
	}
	log := zerolog.New(writer).With().Timestamp().Logger().Level(level)
	return &log
}

func parseStrategy(name string) (isogeny.Strategy, error) {
	switch name {
	case "balanced", "":
		return isogeny.Balanced{}, nil
	case "naive":
		return isogeny.Naive{}, nil
	}
	return nil, errors.Errorf("unknown strategy %q, use one of: balanced, naive", name)
}

type loaded struct {
	path   string
	bundle *encoding.Bundle
}

func loadBundles(paths []string) ([]loaded, error) {
	bundles := make([]loaded, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		b, err := encoding.Decode(data)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s", path)
		}
		bundles = append(bundles, loaded{path: path, bundle: b})
	}
	return bundles, nil
}

func paramsKey(p sqisign.Params) string {
	return p.String()
}

func verifyAction(c *cli.Context) error {
	if c.App.ErrWriter == nil {
		c.App.ErrWriter = os.Stderr
	}
	log := createLogger(c)

	if c.NArg() == 0 {
		return cli.Exit("no signature bundle given", 2)
	}
	strategy, err := parseStrategy(c.String("strategy"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	bundles, err := loadBundles(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	// one verifier per parameter set, bundles of the same set run as a batch
	groups := make(map[string][]int)
	var order []string
	for i, l := range bundles {
		key := paramsKey(l.bundle.Params)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	failed := 0
	for _, key := range order {
		idx := groups[key]
		opts := []verify.Option{
			verify.WithLogger(log),
			verify.WithStrategy(strategy),
			verify.WithWorkers(c.Int("workers")),
		}
		// field operations are only counted when they are reported
		if c.Bool("metrics") {
			opts = append(opts, verify.WithCounter(m))
		}
		v, err := verify.New(bundles[idx[0]].bundle.Params, opts...)
		if err != nil {
			return cli.Exit(errors.Wrap(err, key).Error(), 2)
		}

		items := make([]verify.Item, len(idx))
		for j, i := range idx {
			b := bundles[i].bundle
			items[j] = verify.Item{
				PublicKey:    b.PublicKey,
				Message:      b.Message,
				Compressed:   b.Compressed,
				Uncompressed: b.Uncompressed,
			}
		}

		start := time.Now()
		results, err := v.VerifyBatch(c.Context, items)
		if err != nil {
			return err
		}
		for j, r := range results {
			m.ObserveVerification(r.Valid, r.Err)
			path := bundles[idx[j]].path
			switch {
			case r.Err != nil:
				failed++
				log.Error().Err(r.Err).Str("bundle", path).Str("kind", sqisign.KindOf(r.Err).String()).Msg("Malformed signature bundle")
			case !r.Valid:
				failed++
				log.Error().Str("bundle", path).Msg("Signature is invalid")
			default:
				log.Info().Str("bundle", path).Msg("Signature is valid")
			}
		}
		log.Debug().Str("params", key).Int("bundles", len(idx)).Dur("elapsed", time.Since(start)).Msg("Batch finished")
	}

	if c.Bool("metrics") {
		event := log.Info().Float64("cost", m.Cost())
		for op, n := range m.Operations() {
			event = event.Float64(op.String(), n)
		}
		event.Msg("Field operations")
	}

	if failed > 0 {
		return cli.Exit(errors.Errorf("%d of %d signatures failed verification", failed, len(bundles)).Error(), 1)
	}
	return nil
}
