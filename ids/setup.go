package ids

import (
	"crypto/rand"
	"io"
	"sync"
)

// maxDraws bounds the retries when the source yields an all-zero identifier,
// which is invalid on the wire.
const maxDraws = 4

// Generator draws trace and span identifiers from an entropy reader.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator backed by crypto/rand.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// A nil reader falls back to crypto/rand.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Generator{entropy: entropy}
}
