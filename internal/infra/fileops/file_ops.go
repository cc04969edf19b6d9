// Where: internal/infra/fileops/file_ops.go
// What: Filesystem helpers for scaffolding and storage backups.
// Why: Workflows copy trees and write generated files with the same modes.
package fileops

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const (
	dirMode    fs.FileMode = 0o755
	fileMode   fs.FileMode = 0o644
	scriptMode fs.FileMode = 0o755
)

func EnsureDir(dir string) error {
	return errors.Wrapf(os.MkdirAll(dir, dirMode), "create %s", dir)
}

// RemoveDir deletes dir and its contents. A missing dir is not an error.
func RemoveDir(dir string) error {
	if dir == "" {
		return nil
	}
	return errors.Wrapf(os.RemoveAll(dir), "remove %s", dir)
}

// WriteFile writes content, creating parent directories. Shell scripts
// are made executable.
func WriteFile(target, content string) error {
	if err := EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(target, []byte(content), modeFor(target)), "write %s", target)
}

// CopyDir copies src into dst recursively, overwriting files and
// preserving their permission bits.
func CopyDir(src, dst string) error {
	_, err := copyTree(os.DirFS(src), ".", dst, func(_ string, entry fs.DirEntry) (fs.FileMode, error) {
		info, err := entry.Info()
		if err != nil {
			return 0, err
		}
		return info.Mode().Perm(), nil
	}, false)
	return errors.Wrapf(err, "copy %s to %s", src, dst)
}

// CopyResult lists destination paths relative to the target directory.
type CopyResult struct {
	Copied  []string
	Skipped []string
}

// CopyMissingFS copies the tree under root in fsys into dst. Files that
// already exist in dst are left untouched.
func CopyMissingFS(fsys fs.FS, root, dst string) (CopyResult, error) {
	return copyTree(fsys, root, dst, func(name string, _ fs.DirEntry) (fs.FileMode, error) {
		return modeFor(name), nil
	}, true)
}

func copyTree(
	fsys fs.FS,
	root, dst string,
	mode func(name string, entry fs.DirEntry) (fs.FileMode, error),
	keepExisting bool,
) (CopyResult, error) {
	var result CopyResult
	err := fs.WalkDir(fsys, root, func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := name
		if root != "." {
			rel, err = filepath.Rel(root, name)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
		}
		target := filepath.Join(dst, filepath.FromSlash(rel))
		if entry.IsDir() {
			return EnsureDir(target)
		}
		if keepExisting && FileOrDirExists(target) {
			result.Skipped = append(result.Skipped, rel)
			return nil
		}
		perm, err := mode(name, entry)
		if err != nil {
			return err
		}
		if err := copyOne(fsys, name, target, perm); err != nil {
			return err
		}
		result.Copied = append(result.Copied, rel)
		return nil
	})
	return result, err
}

func copyOne(fsys fs.FS, name, target string, perm fs.FileMode) error {
	in, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(target, perm)
}

func modeFor(name string) fs.FileMode {
	if path.Ext(filepath.ToSlash(name)) == ".sh" {
		return scriptMode
	}
	return fileMode
}

func FileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func DirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func FileOrDirExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
