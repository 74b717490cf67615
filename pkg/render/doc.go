// Package render groups the renderers for the library dependency graph.
//
// The [nodelink] subpackage emits Graphviz DOT, with plugins and library
// functions styled apart, and renders it to SVG or PNG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Ranked: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/flamelink/pkg/render/nodelink
package render
