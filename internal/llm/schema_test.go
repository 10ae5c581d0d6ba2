package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["speech", "meta"],
	"properties": {
		"speech": {"type": "string"},
		"meta": {"type": "object"}
	}
}`

func TestSchema_Validate(t *testing.T) {
	s := MustCompileSchema(testSchema)

	assert.NoError(t, s.Validate([]byte(`{"speech": "hi", "meta": {}}`)))

	err := s.Validate([]byte(`{"speech": 3}`))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.NotEmpty(t, schemaErr.Errors)
	assert.Contains(t, err.Error(), "speech")
}

func TestCompileSchema_Invalid(t *testing.T) {
	_, err := CompileSchema(`{"type": 12}`)
	assert.Error(t, err)
}
