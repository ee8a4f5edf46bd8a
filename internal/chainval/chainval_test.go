package chainval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"zodguard/internal/argval"
	"zodguard/internal/config"
	"zodguard/internal/governor"
	"zodguard/internal/issue"
	"zodguard/internal/objectval"
	"zodguard/internal/saferegex"
	"zodguard/internal/synx"
)

func testConfig() config.Config {
	return config.Config{
		Limits: config.Limits{
			TimeoutMs:              1000,
			MaxNodeCount:           1000,
			MaxObjectDepth:         3,
			MaxChainDepth:          20,
			MaxArgumentNesting:     3,
			MaxPropertiesPerObject: 5,
			MaxStringLength:        50,
		},
	}
}

func newValidator(cfg config.Config) (*Validator, *issue.Reporter) {
	r := issue.New()
	gov := governor.New(cfg.Limits)
	objects := objectval.New(cfg, r, gov)
	args := argval.New(cfg, r, gov, objects, saferegex.Default)
	return New(cfg, r, gov, args), r
}

func schemaExpr(t *testing.T, source string) (*synx.Tree, *synx.Node) {
	t.Helper()
	tree, err := synx.Parse(context.Background(), []byte(source))
	require.NoError(t, err, "parse")
	decl := firstVariableDeclarator(tree.Root())
	require.NotNil(t, decl, "no variable declarator found in %q", source)
	init := decl.Field("value")
	require.NotNil(t, init, "declarator has no initializer in %q", source)
	return tree, init
}

func firstVariableDeclarator(n *synx.Node) *synx.Node {
	if n.Kind() == "variable_declarator" {
		return n
	}
	for _, c := range n.NamedChildren() {
		if found := firstVariableDeclarator(c); found != nil {
			return found
		}
	}
	return nil
}

func TestSimpleConstructorIsValid(t *testing.T) {
	tree, expr := schemaExpr(t, `const s = z.string();`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.True(t, v.Validate(expr), "expected z.string() to be a valid chain")
}

func TestChainOfAllowedMethodsIsValid(t *testing.T) {
	tree, expr := schemaExpr(t, `const s = z.string().min(1).max(10).optional();`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.True(t, v.Validate(expr), "expected a chain of allowed methods to be valid")
}

func TestChainNotStartingWithZIsRejected(t *testing.T) {
	tree, expr := schemaExpr(t, `const s = y.string();`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.False(t, v.Validate(expr), "expected a chain rooted at something other than z to be rejected")
}

func TestDisallowedMethodIsRejected(t *testing.T) {
	tree, expr := schemaExpr(t, `const s = z.string().exec();`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.False(t, v.Validate(expr), "expected an unknown method name to be rejected")
}

func TestComputedMemberIsRejected(t *testing.T) {
	tree, expr := schemaExpr(t, `const s = z["string"]();`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.False(t, v.Validate(expr), "expected a computed member access in the chain to be rejected")
}

func TestChainDepthCapIsEnforced(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.MaxChainDepth = 2
	tree, expr := schemaExpr(t, `const s = z.string().min(1).max(10).optional();`)
	defer tree.Close()

	v, _ := newValidator(cfg)
	require.False(t, v.Validate(expr), "expected a chain deeper than max_chain_depth to be rejected")
}

func TestArgumentDelegationCatchesUnsafeRegex(t *testing.T) {
	tree, expr := schemaExpr(t, `const s = z.string().regex(/^(a+)+$/);`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.False(t, v.Validate(expr), "expected the chain validator to reject via delegated argument validation")
}

func TestNestedObjectConstructorIsValid(t *testing.T) {
	tree, expr := schemaExpr(t, `const s = z.object({ name: z.string() });`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.True(t, v.Validate(expr), "expected z.object({...}) to be a valid chain")
}
