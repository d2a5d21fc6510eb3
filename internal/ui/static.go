package ui

import "embed"

// StaticFS holds the chart renderer and stylesheet served under /static/.
//
//go:embed static/*.js static/*.css
var StaticFS embed.FS
