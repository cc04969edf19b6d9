// Where: assets/embed.go
// What: Embedded fly.toml templates and Laravel container files.
// Why: Ship launch assets inside the binary.
package assets

import "embed"

// TemplatesFS holds templates/ including dot-prefixed static files.
//
//go:embed all:templates
var TemplatesFS embed.FS

// Template paths inside TemplatesFS.
const (
	LaravelConfig     = "templates/laravel/fly.toml.tmpl"
	LaravelStaticDir  = "templates/laravel/static"
	MySQLConfig       = "templates/mysql/fly.toml.tmpl"
	RedisConfig       = "templates/redis/fly.toml.tmpl"
	StorageInitScript = "templates/storage_vol/1_storage_init.sh.tmpl"
)
