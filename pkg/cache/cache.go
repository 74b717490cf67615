// Package cache stores assembled kernels and compiled SPIR-V keyed by a
// hash of everything that influences them.
//
// Composition is pure and cheap; naga compilation is not. The pipeline
// consults the cache before validating or compiling, so repeated runs over
// the same flame skip the shader toolchain entirely.
//
// Backends:
//   - [NullCache]: stores nothing (--no-cache, tests)
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: document store with a TTL index
//
// Keys come from a [Keyer]; wrap one in [NewScopedKeyer] to namespace a
// cache shared between tenants.
package cache

import (
	"context"
	"time"
)

// TTLs for cached artifacts. Kernels depend only on their inputs, so they
// can live long; the catalog version is part of every key.
const (
	TTLKernel = 7 * 24 * time.Hour
	TTLSPIRV  = 30 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// KernelKeyOpts holds everything besides the flame that changes a kernel.
type KernelKeyOpts struct {
	Mode          string `json:"mode"`
	Strict        bool   `json:"strict"`
	SkipUnknown   bool   `json:"skip_unknown"`
	WorkgroupSize int    `json:"workgroup_size"`
	NoEntryPoint  bool   `json:"no_entry_point"`
	// Catalog identifies the catalog and library build.
	Catalog string `json:"catalog"`
}

// Keyer derives cache keys.
type Keyer interface {
	// KernelKey keys an assembled kernel by the hash of the flame source.
	KernelKey(flameHash string, opts KernelKeyOpts) string
	// SPIRVKey keys compiled SPIR-V by the hash of the WGSL source.
	SPIRVKey(sourceHash string) string
}

// DefaultKeyer produces "kernel:<sha256>" and "spirv:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// KernelKey implements Keyer.
func (DefaultKeyer) KernelKey(flameHash string, opts KernelKeyOpts) string {
	return hashKey("kernel", flameHash, opts)
}

// SPIRVKey implements Keyer.
func (DefaultKeyer) SPIRVKey(sourceHash string) string {
	return hashKey("spirv", sourceHash)
}
