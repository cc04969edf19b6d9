// Where: internal/domain/template/renderer.go
// What: Render fly.toml files and volume scripts from embedded templates.
// Why: Generated configuration comes from versioned templates, not string edits.
package template

import (
	"bytes"
	"io/fs"
	"path"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/assets"
	"github.com/poruru-code/fly-laravel/internal/meta"
)

// Renderer executes templates from a file system and caches parsed results.
type Renderer struct {
	fsys  fs.FS
	cache sync.Map
}

// NewRenderer returns a renderer reading from fsys. A nil fsys uses the
// embedded assets.
func NewRenderer(fsys fs.FS) *Renderer {
	if fsys == nil {
		fsys = assets.TemplatesFS
	}
	return &Renderer{fsys: fsys}
}

// LaravelConfig renders the Laravel app fly.toml.
func (r *Renderer) LaravelConfig(cfg LaravelConfig) (string, error) {
	if strings.TrimSpace(cfg.AppName) == "" {
		return "", errors.New("app name is required")
	}
	return r.render(assets.LaravelConfig, cfg)
}

// MySQLConfig renders .fly/mysql/fly.toml.
func (r *Renderer) MySQLConfig(cfg ServiceConfig) (string, error) {
	return r.render(assets.MySQLConfig, cfg)
}

// RedisConfig renders .fly/redis/fly.toml.
func (r *Renderer) RedisConfig(cfg ServiceConfig) (string, error) {
	return r.render(assets.RedisConfig, cfg)
}

// StorageInitScript renders .fly/scripts/1_storage_init.sh, which restores
// the storage backup into a freshly mounted, empty volume.
func (r *Renderer) StorageInitScript() (string, error) {
	data := StorageInit{
		MountPath:  meta.StorageMountPath,
		BackupDir:  meta.StorageBackup,
		BackupPath: path.Join(path.Dir(meta.StorageMountPath), meta.StorageBackup),
	}
	return r.render(assets.StorageInitScript, data)
}

func (r *Renderer) render(name string, data any) (string, error) {
	tmpl, err := r.load(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "render %s", name)
	}
	return buf.String(), nil
}

func (r *Renderer) load(name string) (*template.Template, error) {
	if cached, ok := r.cache.Load(name); ok {
		tmpl, ok := cached.(*template.Template)
		if !ok {
			return nil, errors.Newf("template cache type mismatch for %s", name)
		}
		return tmpl, nil
	}
	tmpl, err := template.New(path.Base(name)).
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(r.fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "parse template %s", name)
	}
	r.cache.Store(name, tmpl)
	return tmpl, nil
}
