package appfs

import "embed"

// FS embeds non-code assets (DB migrations) into the binary.
//go:embed migrations
var FS embed.FS
