// Package nodelink renders library dependency graphs as node-link diagrams.
//
// Convert a graph from resolve.Graph to DOT, then render it:
//
//	g, _ := resolve.Graph(variations.Default(), std.Default(), nil)
//	transform.Normalize(g)
//	dot := nodelink.ToDOT(g, nodelink.Options{Ranked: true})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)
//
// The DOT text can also be written out and processed with the graphviz
// command line tools. Rendering runs in-process through
// [github.com/goccy/go-graphviz].
package nodelink
