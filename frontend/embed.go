//go:build !noembed

// Package frontend provides the embedded frontend build output.
package frontend

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var distDir embed.FS

// DistFS is the embedded build output with the "dist" prefix stripped.
var DistFS fs.FS

func init() {
	DistFS, _ = fs.Sub(distDir, "dist")
}
