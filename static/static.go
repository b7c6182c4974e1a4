// Package static embeds the public assets (stylesheets and images) into the
// binary. They are served under /css/ and /images/.
package static

import (
	"embed"
	"io/fs"
)

//go:embed public/css public/images
var publicFS embed.FS

// Public returns the asset tree rooted at public/, so "css/main.css" and
// "images/default-avatar.jpeg" resolve directly.
func Public() fs.FS {
	sub, err := fs.Sub(publicFS, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
