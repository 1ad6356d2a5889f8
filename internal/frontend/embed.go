package frontend

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var assets embed.FS

// StaticFS returns the embedded stylesheet and script directory
func StaticFS() (fs.FS, error) {
	return fs.Sub(assets, "static")
}
