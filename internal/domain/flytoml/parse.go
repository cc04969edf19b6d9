// Where: internal/domain/flytoml/parse.go
// What: fly.toml decoding with key order recovery.
// Why: go-toml decodes into maps, which lose the authored order.
package flytoml

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"github.com/poruru-code/fly-laravel/internal/failure"
)

// Load reads and parses the fly.toml at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return doc, nil
}

// Parse decodes TOML into an ordered table.
func Parse(data []byte) (*Table, error) {
	decoded := map[string]any{}
	if err := toml.Unmarshal(data, &decoded); err != nil {
		return nil, failure.Validation("invalid TOML: %v", err)
	}
	return FromMap(decoded, keyOrder(data)), nil
}

// keyOrder maps every dotted key path to the position where it first
// appears. Keys inside inline tables are not recorded.
func keyOrder(data []byte) map[string]int {
	order := map[string]int{}
	record := func(parts []string) {
		for i := 1; i <= len(parts); i++ {
			path := strings.Join(parts[:i], ".")
			if _, ok := order[path]; !ok {
				order[path] = len(order)
			}
		}
	}

	var parser unstable.Parser
	parser.Reset(data)
	var section []string
	for parser.NextExpression() {
		expr := parser.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			section = keyParts(expr.Key())
			record(section)
		case unstable.KeyValue:
			parts := append(append([]string{}, section...), keyParts(expr.Key())...)
			record(parts)
		}
	}
	// Syntax errors surface from Unmarshal.
	return order
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}
