// Package transform prepares dependency graphs for drawing.
//
// The resolver works on the raw graph. Renderers want something tidier:
//
//   - [BreakCycles] removes back edges so a broken library can still be
//     laid out, and reports what it removed
//   - [TransitiveReduction] drops edges implied by longer paths
//   - [AssignLayers] gives every node a row, plugins on top
//
// [Normalize] runs all three in that order.
package transform
