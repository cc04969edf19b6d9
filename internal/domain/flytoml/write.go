// Where: internal/domain/flytoml/write.go
// What: fly.toml encoding with a generated-file header.
// Why: Emit values before sections and skip empty sections.
package flytoml

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/poruru-code/fly-laravel/internal/meta"
)

const headerTimeLayout = "2006-01-02 15:04:05"

var bareKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Header returns the comment block written at the top of fly.toml.
func Header(now time.Time) string {
	return "# fly.toml app configuration auto-generated on " + now.Format(headerTimeLayout) + "\n" +
		"#\n" +
		"# See " + meta.ConfigDocsURL + " for information about how to use this file.\n" +
		"#\n"
}

// Write encodes doc and replaces the file at path.
func Write(doc *Table, path string, now time.Time) error {
	data, err := Encode(doc, now)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// Encode renders doc as TOML preceded by Header(now).
func Encode(doc *Table, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header(now))
	buf.WriteString("\n")
	if err := encodeTable(&buf, doc, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeTable(buf *bytes.Buffer, t *Table, path []string) error {
	for _, key := range t.keys {
		n := t.entries[key]
		if n.kind != KindScalar && n.kind != KindArray {
			continue
		}
		line, err := encodeKeyValue(key, n)
		if err != nil {
			return errors.Wrapf(err, "encode %s", strings.Join(append(path[:len(path):len(path)], key), "."))
		}
		buf.WriteString(line)
	}

	for _, key := range t.keys {
		n := t.entries[key]
		child := append(path[:len(path):len(path)], key)
		switch n.kind {
		case KindTable:
			if n.table.IsEmpty() {
				continue
			}
			if n.table.hasValues() {
				buf.WriteString("\n[" + headerKey(child) + "]\n")
			}
			if err := encodeTable(buf, n.table, child); err != nil {
				return err
			}
		case KindTableArray:
			for _, el := range n.tables {
				if el.IsEmpty() {
					continue
				}
				buf.WriteString("\n[[" + headerKey(child) + "]]\n")
				if err := encodeTable(buf, el, child); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (t *Table) hasValues() bool {
	for _, key := range t.keys {
		switch t.entries[key].kind {
		case KindScalar, KindArray:
			return true
		}
	}
	return false
}

func encodeKeyValue(key string, n Node) (string, error) {
	var v any = n.scalar
	if n.kind == KindArray {
		for _, item := range n.items {
			if _, ok := item.(map[string]any); ok {
				return "", errors.Newf("array %q holds a table; use Tables", key)
			}
		}
		v = n.items
	}
	out, err := toml.Marshal(map[string]any{key: v})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func headerKey(parts []string) string {
	quoted := make([]string, len(parts))
	for i, part := range parts {
		if bareKeyPattern.MatchString(part) {
			quoted[i] = part
			continue
		}
		quoted[i] = strconv.Quote(part)
	}
	return strings.Join(quoted, ".")
}
