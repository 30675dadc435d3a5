// Package db embeds the SQL migrations so production builds can run them
// without the source tree.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
