package argval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

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
			MaxChainDepth:          5,
			MaxArgumentNesting:     3,
			MaxPropertiesPerObject: 5,
			MaxStringLength:        20,
		},
	}
}

func newValidator(cfg config.Config) (*Validator, *issue.Reporter) {
	r := issue.New()
	gov := governor.New(cfg.Limits)
	objects := objectval.New(cfg, r, gov)
	return New(cfg, r, gov, objects, saferegex.Default), r
}

func callArgs(t *testing.T, source string) (*synx.Tree, []*synx.Node) {
	t.Helper()
	tree, err := synx.Parse(context.Background(), []byte(source))
	require.NoError(t, err, "parse")
	call := firstCallWithArguments(tree.Root())
	require.NotNil(t, call, "no call expression with arguments found in %q", source)
	argsNode := call.Field("arguments")
	return tree, argsNode.NamedChildren()
}

func firstCallWithArguments(n *synx.Node) *synx.Node {
	if n.Kind() == "call_expression" && n.Field("arguments") != nil && n.Field("arguments").NamedChildCount() > 0 {
		return n
	}
	for _, c := range n.NamedChildren() {
		if found := firstCallWithArguments(c); found != nil {
			return found
		}
	}
	return nil
}

func TestRefineRequiresFunctionArgument(t *testing.T) {
	tree, args := callArgs(t, `const s = z.number().refine({ foo: 1 });`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.False(t, v.Validate("refine", args, 0), "expected an object in refine's position 0 to be rejected")
}

func TestRefineAcceptsArrowFunction(t *testing.T) {
	tree, args := callArgs(t, `const s = z.number().refine(v => v > 0);`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.True(t, v.Validate("refine", args, 0), "expected an arrow function argument to refine to be accepted")
}

func TestRefineRejectsAsyncFunction(t *testing.T) {
	tree, args := callArgs(t, `const s = z.number().refine(async v => v > 0);`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.False(t, v.Validate("refine", args, 0), "expected an async function argument to be rejected")
}

func TestTransformRejectsDisallowedBodyStatement(t *testing.T) {
	tree, args := callArgs(t, `const s = z.number().transform(v => { globalThis.x = v; return v; });`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.False(t, v.Validate("transform", args, 0), "expected an assignment inside the function body to be rejected")
}

func TestTransformAcceptsSafeBody(t *testing.T) {
	tree, args := callArgs(t, `const s = z.number().transform(v => { return v + 1; });`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.True(t, v.Validate("transform", args, 0), "expected a return-only function body to be accepted")
}

func TestPipeRejectsFunctionArgument(t *testing.T) {
	tree, args := callArgs(t, `const s = z.number().pipe(v => v);`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.False(t, v.Validate("pipe", args, 0), "expected pipe to reject a function argument")
}

func TestPipeAcceptsSchemaCallArgument(t *testing.T) {
	tree, args := callArgs(t, `const s = z.number().pipe(z.string());`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.True(t, v.Validate("pipe", args, 0), "expected pipe to accept a well-formed schema call argument")
}

func TestRegexRejectsCatastrophicPattern(t *testing.T) {
	tree, args := callArgs(t, `const s = z.string().regex(/^(a+)+$/);`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.False(t, v.Validate("regex", args, 0), "expected a catastrophic-backtracking regex to be rejected")
}

func TestRegexAcceptsOrdinaryPattern(t *testing.T) {
	tree, args := callArgs(t, `const s = z.string().regex(/^[a-z]+$/);`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.True(t, v.Validate("regex", args, 0), "expected an ordinary regex pattern to be accepted")
}

func TestObjectMethodForwardsToObjectValidator(t *testing.T) {
	tree, args := callArgs(t, `const s = z.object({ a: z.string() });`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.True(t, v.Validate("object", args, 0), "expected a plain object argument to object() to be accepted")
}

func TestUnknownMethodAcceptsAnyArguments(t *testing.T) {
	tree, args := callArgs(t, `const s = z.string().min(async () => {});`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.True(t, v.Validate("min", args, 0), "a method absent from Table should accept any arguments")
}

func TestArityErrorOnTooManyArguments(t *testing.T) {
	tree, args := callArgs(t, `const s = z.number().transform(a => a, b => b);`)
	defer tree.Close()

	v, _ := newValidator(testConfig())
	require.False(t, v.Validate("transform", args, 0), "expected too many arguments to transform to be rejected")
}
