// Package static holds the page assets embedded into the dev server.
package static

import "embed"

//go:embed index.js style.css
var FS embed.FS
