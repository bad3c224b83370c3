package config

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

// ErrInvalidSettings is returned when raw settings do not match the schema.
var ErrInvalidSettings = errors.New("config schema validation failed")

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
})

// ValidateSettings checks raw settings, as read from a config file, against the
// embedded schema. Violations are reported as "field: problem", sorted by field.
func ValidateSettings(settings map[string]any) error {
	if settings == nil {
		settings = map[string]any{}
	}
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("load config schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(settings))
	if err != nil {
		return fmt.Errorf("validate config schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, re.Field()+": "+re.Description())
	}
	slices.Sort(problems)
	return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
}
