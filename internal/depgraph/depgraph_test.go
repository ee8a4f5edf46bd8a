package depgraph

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zodguard/internal/config"
)

func TestIndependentSchemasFormSeparateGroups(t *testing.T) {
	source := `export const aSchema = z.object({ a: z.string() });
export const bSchema = z.object({ b: z.number() });
`
	groups, issues, err := Analyze(context.Background(), []byte(source), config.Relaxed())
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, groups, 2, "expected 2 independent groups")
}

func TestDependentSchemasAreInlinedIntoOneGroup(t *testing.T) {
	source := `export const nameSchema = z.string();
export const userSchema = z.object({ name: nameSchema });
`
	groups, _, err := Analyze(context.Background(), []byte(source), config.Relaxed())
	require.NoError(t, err)
	require.Len(t, groups, 1, "expected the dependent schemas to form one group")

	g := groups[0]
	type golden struct {
		SchemaNames []string
		Metrics     Metrics
	}
	want := golden{
		SchemaNames: []string{"userSchema", "nameSchema"},
		Metrics:     Metrics{SchemaCount: 2},
	}
	got := golden{SchemaNames: g.SchemaNames, Metrics: Metrics{SchemaCount: g.Metrics.SchemaCount}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema group mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, g.Code, "z.string()", "expected nameSchema's initializer to be inlined")
}

func TestArrayRootUnwrapRemovesOuterArray(t *testing.T) {
	source := `export const itemSchema = z.string();
export const listSchema = z.array(itemSchema);
`
	cfg := config.Relaxed()
	cfg.SchemaUnification.UnwrapArrayRoot = true
	groups, _, err := Analyze(context.Background(), []byte(source), cfg)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.NotContains(t, groups[0].Code, "z.array(", "expected the outer z.array(...) wrapper to be unwrapped")
}

func TestOrderingSortsByComponentSizeDescending(t *testing.T) {
	source := `export const aSchema = z.string();
export const bSchema = z.object({ a: aSchema });
export const cSchema = z.number();
`
	groups, _, err := Analyze(context.Background(), []byte(source), config.Relaxed())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	gotCounts := []int{groups[0].Metrics.SchemaCount, groups[1].Metrics.SchemaCount}
	wantCounts := []int{2, 1}
	if diff := cmp.Diff(wantCounts, gotCounts); diff != "" {
		t.Fatalf("expected groups sorted by descending schema_count (-want +got):\n%s", diff)
	}
}
