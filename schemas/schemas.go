// Package schemas embeds the JSON Schemas perfbench validates its files
// against.
package schemas

import _ "embed"

// ConfigSchemaJSON is the schema for .perfbench.yaml.
//
//go:embed config.schema.json
var ConfigSchemaJSON string
