package website

import "embed"

// EmbeddedAssets contains the assets the site ships with:
// site.css, icons.svg and favicon.svg. Files of the same name in the static
// directory take precedence.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
