// Package registry provides a global registry for terrain generator
// strategies. Strategies register themselves in init() functions, allowing
// the CLI to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hill-rider/internal/config"
	"github.com/vovakirdan/hill-rider/internal/core"
	"github.com/vovakirdan/hill-rider/internal/noise"
)

// Generator is the interface every streaming strategy implements.
// Generators are pure logic: they never render and never persist.
type Generator interface {
	// Strategy returns the registered name (e.g., "spline", "chunk").
	Strategy() string

	// Initial returns the terrain produced at construction.
	Initial() core.Update

	// Advance produces terrain ahead of observerX and retires terrain
	// behind it. The caller decides how often to call it.
	Advance(observerX float64) core.Update

	// Frontier returns the x-coordinate up to which terrain exists.
	Frontier() float64

	// Ground returns the surface as a polyline covering [from, to].
	Ground(from, to float64) []core.Vec2
}

// Options carries everything a factory needs to build a generator.
type Options struct {
	Config     config.RiderConfig
	Source     noise.Source
	Difficulty *config.DifficultyManager // nil disables progression
	Logger     *log.Logger               // nil disables batch logging
}

// Info contains metadata about a registered strategy.
type Info struct {
	Name        string
	Description string
}

// Factory builds a generator. It returns an error for invalid options.
type Factory func(opts Options) (Generator, error)

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a strategy factory to the registry.
// Typically called from a strategy's init() function.
// Panics if a strategy with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: strategy %q already registered", name))
	}

	factories[name] = f
	descriptions[name] = description
}

// List returns information about all registered strategies, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for name := range factories {
		result = append(result, Info{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a generator by strategy name.
// Unknown names produce an error that suggests the closest registered name.
func Create(name string, opts Options) (Generator, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		if guess := Suggest(name); guess != "" {
			return nil, fmt.Errorf("registry: unknown strategy %q (did you mean %q?)", name, guess)
		}
		return nil, fmt.Errorf("registry: unknown strategy %q", name)
	}

	g, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", name, err)
	}
	return g, nil
}

// Exists checks if a strategy with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}

// Suggest returns the registered name closest to name, or "" when nothing
// is close enough to be a plausible typo.
func Suggest(name string) string {
	mu.RLock()
	defer mu.RUnlock()

	best, bestDist := "", -1
	for candidate := range factories {
		dist := levenshtein.ComputeDistance(name, candidate)
		if dist > suggestLimit(len(candidate)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && candidate < best) {
			best, bestDist = candidate, dist
		}
	}
	return best
}

func suggestLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
