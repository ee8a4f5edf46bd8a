package zodguard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchemaEndToEnd(t *testing.T) {
	source := `import { z } from "zod";
const userSchema = z.object({
	name: z.string().min(1),
	age: z.number().positive(),
});
`
	result := ValidateSchema(context.Background(), []byte(source), Relaxed())
	require.True(t, result.IsValid, "expected a well-formed schema to validate, got issues: %+v", result.Issues)
	assert.Contains(t, result.CleanedCode, "export const userSchema")
}

func TestValidateSchemaRejectsDeniedPrefix(t *testing.T) {
	cfg := ExtremelySafe()
	source := `import { z } from "zod";
const userSchema = z.object({ _secret: z.string() });
`
	result := ValidateSchema(context.Background(), []byte(source), cfg)
	assert.False(t, result.IsValid, "expected an extremely-safe run to reject an underscore-prefixed property")
}

func TestValidateSchemaComputesSchemaGroups(t *testing.T) {
	cfg := Relaxed()
	cfg.SchemaUnification.Enabled = true
	source := `import { z } from "zod";
const nameSchema = z.string();
const userSchema = z.object({ name: nameSchema });
`
	result := ValidateSchema(context.Background(), []byte(source), cfg)
	require.True(t, result.IsValid, "expected schema grouping run to stay valid: %+v", result.Issues)
	assert.Len(t, result.SchemaGroups, 1, "expected one dependency-inlined group")
}
