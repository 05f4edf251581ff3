// Package streaming keeps terrain generated ahead of a moving observer and
// retires terrain left behind. Two strategies are provided: a fine
// per-point spline ("spline") and coarse prefab chunks ("chunk").
package streaming

import (
	"fmt"

	"github.com/vovakirdan/hill-rider/internal/registry"
)

const (
	StrategySpline = "spline"
	StrategyChunk  = "chunk"
)

func init() {
	registry.Register(StrategySpline, "smooth per-point curve with coins", func(opts registry.Options) (registry.Generator, error) {
		w, err := NewWindow(opts)
		if err != nil {
			return nil, err
		}
		return w, nil
	})
	registry.Register(StrategyChunk, "fixed-height prefab chunks", func(opts registry.Options) (registry.Generator, error) {
		w, err := NewChunkWindow(opts)
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}

// checkSource rejects options that cannot drive a generator.
func checkSource(opts registry.Options) error {
	if opts.Source == nil {
		return fmt.Errorf("streaming: nil noise source")
	}
	return nil
}
