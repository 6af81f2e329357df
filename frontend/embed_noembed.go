//go:build noembed

// Package frontend provides the embedded frontend build output.
// Built with -tags noembed it exposes a minimal root document instead.
package frontend

import (
	"io/fs"
	"testing/fstest"
)

// DistFS is a stub filesystem holding only a root document with the #app anchor.
var DistFS fs.FS = fstest.MapFS{
	"index.html": &fstest.MapFile{Data: []byte(`<!DOCTYPE html><html><head><title>picturedesk</title></head><body><div id="app"></div></body></html>`)},
}
