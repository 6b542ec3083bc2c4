package main

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templateFiles embed.FS

//nolint:gochecknoglobals // embedded at build time.
var templates = mustSub(templateFiles, "templates")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
