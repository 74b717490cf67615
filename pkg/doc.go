// Package pkg provides the core libraries for Flamelink kernel composition.
//
// # Overview
//
// Flamelink turns a fractal flame definition into one WGSL compute kernel.
// Each transform of the flame places weighted variation plugins; each plugin
// is a template over its parameters that may call shared library functions.
// The libraries here link those pieces together:
//
//	flame (TOML / flam3 XML)
//	         ↓
//	    [flame] package (decode + convert to a composition request)
//	         ↓
//	    [compose] package (bind templates, resolve library functions)
//	         ↓
//	    [kernel] package (WGSL kernel, naga validation, SPIR-V)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Path: "sierpinski.toml"})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(res.Kernel.Source)
//
// # Main Packages
//
// ## Catalog and Library
//
// [param] - Parameter specs: kinds, bounds, named choices, derived values and
// WGSL literal formatting.
//
// [template] - Plugin templates with typed placeholders, parsed once at
// registration.
//
// [catalog] - Variation descriptors keyed by name, with geometry and pass
// kinds. [catalog/variations] registers the built-in set.
//
// [library] - Shared library functions with their requirements and init
// statements. [library/std] registers the built-in table.
//
// ## Composition
//
// [resolve] - Topological ordering of the library functions a set of plugins
// needs, with conflict and cycle detection. Also builds the dependency [dag].
//
// [bind] - Fills a template from parameter values, either as literals or as
// reads from a parameter buffer.
//
// [compose] - The top-level entry point: binds every placement and links the
// resolved library ahead of the per-transform blocks.
//
// [kernel] - Wraps a composition in a compute kernel and runs naga.
//
// ## Infrastructure
//
// [pipeline] - Load → compose → assemble → shader, shared by the CLI and the
// HTTP server, with kernel and SPIR-V caching.
//
// [cache] - Cache backends: file, Redis and MongoDB.
//
// [dag] and [dag/transform] - The dependency graph and its normalization
// (cycle breaking, transitive reduction, layering).
//
// [render/nodelink] - Graphviz rendering of the dependency graph.
//
// [io] - JSON serialization of the dependency graph.
//
// [errors], [observability], [buildinfo] - Coded errors, lifecycle hooks and
// version information.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [flame]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/flame
// [compose]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/compose
// [kernel]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/kernel
// [param]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/param
// [template]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/template
// [catalog]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/catalog
// [catalog/variations]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/catalog/variations
// [library]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/library
// [library/std]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/library/std
// [resolve]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/resolve
// [bind]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/bind
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/cache
// [dag]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/dag/transform
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/render/nodelink
// [io]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/buildinfo
package pkg
