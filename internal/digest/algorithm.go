package digest

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// ErrUnknownAlgorithm is returned for a hash algorithm name that is not registered
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Default is the algorithm used when none is configured
const Default = "sha256"

// Algorithm is the interface that all content hash algorithms implement
type Algorithm interface {
	// Name returns the registry name
	Name() string

	// Size returns the digest length in bytes
	Size() int

	// New returns a fresh hash state
	New() hash.Hash
}

// BaseAlgorithm adapts a hash constructor to the Algorithm interface
type BaseAlgorithm struct {
	name    string
	size    int
	newFunc func() hash.Hash
}

// NewBaseAlgorithm creates a new base algorithm
func NewBaseAlgorithm(name string, size int, newFunc func() hash.Hash) *BaseAlgorithm {
	return &BaseAlgorithm{
		name:    name,
		size:    size,
		newFunc: newFunc,
	}
}

// Name returns the algorithm name
func (a *BaseAlgorithm) Name() string {
	return a.name
}

// Size returns the digest size in bytes
func (a *BaseAlgorithm) Size() int {
	return a.size
}

// New returns a new hash.Hash
func (a *BaseAlgorithm) New() hash.Hash {
	return a.newFunc()
}

var registry = map[string]Algorithm{}

func init() {
	Register(NewBaseAlgorithm("sha256", sha256.Size, sha256.New))
	Register(NewBaseAlgorithm("sha512", sha512.Size, sha512.New))
	Register(NewBaseAlgorithm("sha1", sha1.Size, sha1.New))
	Register(NewBaseAlgorithm("blake3", 32, func() hash.Hash { return blake3.New() }))
}

// Register adds an algorithm to the registry, replacing any with the same name.
// It is meant to be called from init functions.
func Register(algo Algorithm) {
	registry[strings.ToLower(algo.Name())] = algo
}

// Get returns the algorithm registered under name. Lookup ignores case.
func Get(name string) (Algorithm, error) {
	algo, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnknownAlgorithm, name, strings.Join(Names(), ", "))
	}
	return algo, nil
}

// Names returns the registered algorithm names in lexical order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
