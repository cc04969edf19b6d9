// Where: internal/domain/flytoml/document.go
// What: Ordered tree model for fly.toml documents.
// Why: Generated files keep the key order they were authored in.
package flytoml

import (
	"sort"
	"strings"

	"github.com/poruru-code/fly-laravel/internal/domain/value"
)

// Kind classifies a node in the document tree.
type Kind int

const (
	KindScalar Kind = iota + 1
	KindArray
	KindTable
	KindTableArray
)

// Node is one value in a Table: a scalar, an inline list of scalars,
// a sub-table, or a list of tables.
type Node struct {
	kind   Kind
	scalar any
	items  []any
	table  *Table
	tables []*Table
}

// Scalar wraps a string, number, bool, or time value.
func Scalar(v any) Node {
	return Node{kind: KindScalar, scalar: v}
}

// Array wraps a list of scalars written inline.
func Array(items ...any) Node {
	if items == nil {
		items = []any{}
	}
	return Node{kind: KindArray, items: items}
}

// Sub wraps a nested table.
func Sub(t *Table) Node {
	if t == nil {
		t = NewTable()
	}
	return Node{kind: KindTable, table: t}
}

// Tables wraps a list of tables written as repeated [[key]] blocks.
func Tables(tables ...*Table) Node {
	return Node{kind: KindTableArray, tables: tables}
}

func (n Node) Kind() Kind { return n.kind }
func (n Node) Value() any { return n.scalar }
func (n Node) Items() []any { return n.items }
func (n Node) Table() *Table { return n.table }
func (n Node) TableList() []*Table { return n.tables }

// Interface converts the node back to plain Go values.
func (n Node) Interface() any {
	switch n.kind {
	case KindScalar:
		return n.scalar
	case KindArray:
		out := make([]any, len(n.items))
		copy(out, n.items)
		return out
	case KindTable:
		return n.table.ToMap()
	case KindTableArray:
		out := make([]any, 0, len(n.tables))
		for _, t := range n.tables {
			out = append(out, t.ToMap())
		}
		return out
	}
	return nil
}

// Table is an ordered mapping from keys to nodes.
type Table struct {
	keys    []string
	entries map[string]Node
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: map[string]Node{}}
}

// Len reports the number of direct keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the direct keys in insertion order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Get returns the node stored under key.
func (t *Table) Get(key string) (Node, bool) {
	if t == nil {
		return Node{}, false
	}
	n, ok := t.entries[key]
	return n, ok
}

// Set stores node under key. New keys are appended; existing keys keep
// their position.
func (t *Table) Set(key string, node Node) *Table {
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = node
	return t
}

// Delete removes key when present.
func (t *Table) Delete(key string) {
	if _, ok := t.entries[key]; !ok {
		return
	}
	delete(t.entries, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// SetPath stores node at a dotted path, creating intermediate tables.
// Intermediate entries that are not tables are replaced.
func (t *Table) SetPath(path string, node Node) {
	parts := strings.Split(path, ".")
	current := t
	for _, part := range parts[:len(parts)-1] {
		next, ok := current.Get(part)
		if !ok || next.kind != KindTable {
			next = Sub(NewTable())
			current.Set(part, next)
		}
		current = next.table
	}
	current.Set(parts[len(parts)-1], node)
}

// Lookup resolves a dotted path through nested tables. A table array
// resolves through its first element.
func (t *Table) Lookup(path string) (Node, bool) {
	parts := strings.Split(path, ".")
	current := t
	for i, part := range parts {
		n, ok := current.Get(part)
		if !ok {
			return Node{}, false
		}
		if i == len(parts)-1 {
			return n, true
		}
		switch {
		case n.kind == KindTable:
			current = n.table
		case n.kind == KindTableArray && len(n.tables) > 0:
			current = n.tables[0]
		default:
			return Node{}, false
		}
	}
	return Node{}, false
}

// String returns the scalar at path as a string, or "" when absent.
func (t *Table) String(path string) string {
	n, ok := t.Lookup(path)
	if !ok || n.kind != KindScalar {
		return ""
	}
	return value.AsString(n.scalar)
}

// Merge applies patch onto t. Tables present on both sides merge
// recursively; any other patch node replaces the existing one.
func (t *Table) Merge(patch *Table) *Table {
	if patch == nil {
		return t
	}
	for _, key := range patch.keys {
		incoming := patch.entries[key]
		existing, ok := t.entries[key]
		if ok && existing.kind == KindTable && incoming.kind == KindTable {
			existing.table.Merge(incoming.table)
			continue
		}
		t.Set(key, incoming)
	}
	return t
}

// IsEmpty reports whether the table holds nothing worth writing.
func (t *Table) IsEmpty() bool {
	if t == nil {
		return true
	}
	for _, key := range t.keys {
		n := t.entries[key]
		switch n.kind {
		case KindTable:
			if !n.table.IsEmpty() {
				return false
			}
		case KindTableArray:
			for _, el := range n.tables {
				if !el.IsEmpty() {
					return false
				}
			}
		default:
			return false
		}
	}
	return true
}

// ToMap converts the table to nested plain maps.
func (t *Table) ToMap() map[string]any {
	out := make(map[string]any, t.Len())
	if t == nil {
		return out
	}
	for _, key := range t.keys {
		out[key] = t.entries[key].Interface()
	}
	return out
}

// FromMap builds a table from decoded values. Keys are ordered by order
// (dotted path to position); unknown keys follow in lexical order.
func FromMap(m map[string]any, order map[string]int) *Table {
	return fromMap(m, "", order)
}

func fromMap(m map[string]any, prefix string, order map[string]int) *Table {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		pi, iok := order[joinPath(prefix, keys[i])]
		pj, jok := order[joinPath(prefix, keys[j])]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})

	t := NewTable()
	for _, key := range keys {
		t.Set(key, fromValue(m[key], joinPath(prefix, key), order))
	}
	return t
}

func fromValue(v any, path string, order map[string]int) Node {
	switch typed := v.(type) {
	case map[string]any:
		return Sub(fromMap(typed, path, order))
	case []map[string]any:
		tables := make([]*Table, 0, len(typed))
		for _, m := range typed {
			tables = append(tables, fromMap(m, path, order))
		}
		return Tables(tables...)
	case []any:
		if len(typed) > 0 && len(value.AsMapSlice(typed)) == len(typed) {
			return fromValue(value.AsMapSlice(typed), path, order)
		}
		return Array(typed...)
	}
	return Scalar(v)
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
