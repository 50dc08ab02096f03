// Package migrations встраивает SQL-миграции в бинарник,
// чтобы сервер не зависел от рабочего каталога при старте.
package migrations

import "embed"

//go:embed postgres/*.sql
var FS embed.FS

// Dir — каталог внутри FS, где лежат миграции postgres.
const Dir = "postgres"
