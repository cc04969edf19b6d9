// Where: internal/architecture/scan_test.go
// What: Shared walker over non-test Go sources under internal/.
// Why: Every architecture check reads the same parsed file set.
package architecture

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const internalImportPrefix = "github.com/poruru-code/fly-laravel/internal/"

type sourceFile struct {
	// rel is the slash-separated path below internal/.
	rel  string
	fset *token.FileSet
	file *ast.File
}

// pkg is the package directory below internal/, e.g. "infra/flyio".
func (s sourceFile) pkg() string {
	return filepath.ToSlash(filepath.Dir(s.rel))
}

// layer is the first path element of pkg.
func (s sourceFile) layer() string {
	return strings.SplitN(s.rel, "/", 2)[0]
}

func (s sourceFile) imports() []string {
	out := make([]string, 0, len(s.file.Imports))
	for _, imp := range s.file.Imports {
		if path, err := strconv.Unquote(imp.Path.Value); err == nil {
			out = append(out, path)
		}
	}
	return out
}

func (s sourceFile) line(pos token.Pos) string {
	return s.rel + ":" + strconv.Itoa(s.fset.Position(pos).Line)
}

func scanInternal(t *testing.T, mode parser.Mode) []sourceFile {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root := filepath.Clean(filepath.Join(wd, ".."))

	fset := token.NewFileSet()
	var files []sourceFile
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		file, err := parser.ParseFile(fset, path, nil, mode)
		if err != nil {
			return err
		}
		files = append(files, sourceFile{rel: filepath.ToSlash(rel), fset: fset, file: file})
		return nil
	})
	if err != nil {
		t.Fatalf("scan internal packages: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no sources found under %s", root)
	}
	return files
}

// internalPackage returns the package path below internal/ for an import,
// or "" for imports outside the module's internal tree.
func internalPackage(importPath string) string {
	if !strings.HasPrefix(importPath, internalImportPrefix) {
		return ""
	}
	return strings.TrimPrefix(importPath, internalImportPrefix)
}
