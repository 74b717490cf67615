package pipeline

import (
	"bytes"
	"slices"
	"strings"

	"github.com/matzehuels/flamelink/pkg/dag"
	"github.com/matzehuels/flamelink/pkg/dag/transform"
	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/flame"
	graphio "github.com/matzehuels/flamelink/pkg/io"
	"github.com/matzehuels/flamelink/pkg/render/nodelink"
	"github.com/matzehuels/flamelink/pkg/resolve"
)

// Graph output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidGraphFormats is the set of supported graph output formats.
var ValidGraphFormats = []string{FormatDOT, FormatSVG, FormatPNG, FormatJSON}

// GraphOptions configures a dependency graph rendering.
type GraphOptions struct {
	// Variations limits the graph to these variations. Empty means the
	// variations placed by Flame, or the whole catalog without a flame.
	Variations []string
	// Flame, when set, contributes the variations it places.
	Flame *flame.Flame
	// Format is one of ValidGraphFormats. Empty means DOT.
	Format string
	// Reduce breaks cycles, drops transitive edges and assigns rows.
	Reduce   bool
	Detailed bool
	// Scale is the PNG resolution multiplier. Zero means 2.
	Scale float64
}

// ValidateGraphFormat checks that a graph format is supported.
func ValidateGraphFormat(format string) error {
	if !slices.Contains(ValidGraphFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid graph format %q (must be one of: %s)",
			format, strings.Join(ValidGraphFormats, ", "))
	}
	return nil
}

// Graph builds the library dependency graph for opts and renders it.
func (r *Runner) Graph(opts GraphOptions) ([]byte, *dag.DAG, error) {
	if opts.Format == "" {
		opts.Format = FormatDOT
	}
	if err := ValidateGraphFormat(opts.Format); err != nil {
		return nil, nil, err
	}

	names := opts.Variations
	if len(names) == 0 && opts.Flame != nil {
		req, _, err := flame.ToRequest(opts.Flame, r.Catalog, flame.Options{SkipUnknown: true})
		if err != nil {
			return nil, nil, err
		}
		for _, xf := range req.Transforms {
			for _, p := range xf.Variations {
				if !slices.Contains(names, p.Variation) {
					names = append(names, p.Variation)
				}
			}
		}
		if len(names) == 0 {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "flame %q places no known variations", opts.Flame.Name)
		}
	}

	g, err := resolve.Graph(r.Catalog, r.Library, names)
	if err != nil {
		return nil, nil, err
	}
	if opts.Reduce {
		if removed := transform.Normalize(g); len(removed) > 0 {
			r.Logger.Warn("broke dependency cycles", "edges", len(removed))
		}
	}
	r.Logger.Debug("built dependency graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	if opts.Format == FormatJSON {
		var buf bytes.Buffer
		if err := graphio.WriteGraphJSON(g, &buf); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
		}
		return buf.Bytes(), g, nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed, Ranked: opts.Reduce})
	var out []byte
	switch opts.Format {
	case FormatDOT:
		return []byte(dot), g, nil
	case FormatSVG:
		out, err = nodelink.RenderSVG(dot)
	case FormatPNG:
		scale := opts.Scale
		if scale == 0 {
			scale = 2
		}
		out, err = nodelink.RenderPNG(dot, scale)
	}
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.Format)
	}
	return out, g, nil
}
