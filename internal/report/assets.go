package report

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed all:templates
var templatesFS embed.FS

// Templates returns the report templates. When dir names an existing
// directory the templates are read from disk instead, so a page can be
// restyled without rebuilding.
func Templates(dir string) fs.FS {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}

	templates, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic("failed to create templates sub-filesystem: " + err.Error())
	}
	return templates
}
