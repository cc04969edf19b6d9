// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep names, paths, and platform endpoints in one place.
package meta

const (
	// Project Identity
	AppName   = "fly-laravel"
	Slug      = "fly-laravel"
	EnvPrefix = "FLY_LARAVEL"

	// Directory Layout
	HomeDir       = ".fly-laravel"
	ConfigFile    = "fly.toml"
	ServiceDir    = ".fly"
	ScriptsDir    = ".fly/scripts"
	StorageDir    = "storage"
	StorageBackup = "storage_"

	// Platform
	FlyctlBinary    = "fly"
	GraphQLEndpoint = "https://api.fly.io/graphql"
	ConfigDocsURL   = "https://fly.io/docs/reference/configuration/"
	ScaleDocsURL    = "https://fly.io/docs/apps/scale-machine"
	ScaleCountURL   = "https://fly.io/docs/apps/scale-count/#scale-up"

	// Container Layout
	StorageMountPath = "/var/www/html/storage"
)
