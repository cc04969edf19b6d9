// Where: internal/domain/flytoml/validate.go
// What: Schema validation for generated Laravel fly.toml documents.
// Why: Catch broken templates before a deploy reaches the platform.
package flytoml

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

const schemaURL = "fly.schema.json"

//go:embed schema/fly.schema.yaml
var appSchemaYAML []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// ValidateAppConfig checks a Laravel app document against the bundled schema.
func ValidateAppConfig(doc *Table) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc.ToMap())
	if err != nil {
		return errors.Wrap(err, "marshal fly.toml")
	}
	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return errors.Wrap(err, "unmarshal fly.toml")
	}
	if err := sch.Validate(document); err != nil {
		return failure.Validation("fly.toml does not match the expected layout: %v", err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		jsonData, err := yaml.YAMLToJSON(appSchemaYAML)
		if err != nil {
			schemaErr = errors.Wrap(err, "convert schema yaml to json")
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(jsonData)); err != nil {
			schemaErr = errors.Wrap(err, "add schema resource")
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}
