package appfs

import "embed"

// FS holds the SQL migrations and the email templates.
//go:embed migrations assets
var FS embed.FS
