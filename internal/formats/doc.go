// Package formats holds the catalog of output formats a build produces.
//
// A Format is an immutable descriptor (dimensions, frame rate, duration and
// the layout anchors the animated page reads). The Registry preserves
// registration order, which is also the order formats are built in, and
// resolves user selections with fail-fast validation.
package formats
