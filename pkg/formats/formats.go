// Package formats provides binary encodings for generated meshes: the
// interleaved vertex buffer handed to renderers, the MSH container that
// stores one on disk, and binary STL export.
package formats
