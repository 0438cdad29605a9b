// Package migrations содержит SQL миграции storefront в формате goose
package migrations

import "embed"

// FS встроенные файлы миграций
//
//go:embed *.sql
var FS embed.FS
