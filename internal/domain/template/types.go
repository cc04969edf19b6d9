// Where: internal/domain/template/types.go
// What: Render inputs for fly.toml and script templates.
// Why: Keep template data explicit and typed.
package template

// Process is one entry of the Laravel [processes] table.
type Process struct {
	Name    string
	Command string
}

// Mount is a volume mounted into the Laravel app.
type Mount struct {
	Source      string
	Destination string
}

// LaravelConfig feeds templates/laravel/fly.toml.tmpl.
type LaravelConfig struct {
	AppName     string
	Region      string
	NodeVersion string
	PHPVersion  string
	Processes   []Process
	Mount       *Mount
}

// ServiceConfig feeds the MySQL and Redis fly.toml templates.
type ServiceConfig struct {
	AppName  string
	Region   string
	Database string
	Volume   string
}

// StorageInit feeds the storage re-initialization script.
type StorageInit struct {
	MountPath  string
	BackupDir  string
	BackupPath string
}
