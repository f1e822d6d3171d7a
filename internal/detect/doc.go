// Package detect wraps an external source-detection binary.
//
// The binary (SExtractor-compatible: invoked with an image path and a
// -CATALOG_NAME option) is treated as an opaque collaborator. The wrapper
// runs it in a scratch directory, reads back the ASCII catalog it writes,
// and parses the detected sources. Whether the binary is installed is a
// property of the host, so callers and tests probe Available() first.
package detect
