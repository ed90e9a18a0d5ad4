package httpapi

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// batchSchema validates a JSON batch submission before any run is created.
// The zip stays a string so leading zeros survive.
const batchSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["kind", "records"],
	"properties": {
		"kind": {
			"type": "string",
			"minLength": 1
		},
		"concurrency": {
			"type": "integer",
			"minimum": 1,
			"maximum": 10
		},
		"records": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"address": {"type": "string"},
					"city":    {"type": "string"},
					"state":   {"type": "string"},
					"zip":     {"type": "string"}
				},
				"additionalProperties": false
			}
		}
	},
	"additionalProperties": false
}`

var compiledBatchSchema = gojsonschema.NewStringLoader(batchSchema)

// validateBatchJSON checks a raw submission body against the batch schema.
// Returns a message listing every violation, suitable for a 400 response.
func validateBatchJSON(body []byte) error {
	result, err := gojsonschema.Validate(compiledBatchSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid batch submission: %s", strings.Join(msgs, "; "))
}
