// Package stage is an in-memory scene for camframe. It holds named objects
// with local bounding boxes, parent links and keyframed transforms, and
// implements scene.Scene so selections can run without a host application.
package stage
