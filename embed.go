package folio

import "embed"

// EmbeddedAssets contains static assets shipped with the engine:
// engage.js, the view/like beacon included by detail pages.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
