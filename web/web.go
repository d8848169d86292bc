// Package web embeds the browser chat page served by the relay.
package web

import (
	"embed"
	"io/fs"
)

//go:embed views static
var files embed.FS

// Views holds the page templates, rooted at views/.
var Views = mustSub("views")

// Static holds the browser assets, rooted at static/.
var Static = mustSub("static")

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
