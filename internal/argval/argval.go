// Package argval implements the Argument Validator from spec.md §4.5: a
// per-method rule table plus an ordered, per-argument-kind dispatch
// (function, object, array, literal, identifier, call expression).
package argval

import (
	"fmt"
	"math"

	"zodguard/internal/allowlist"
	"zodguard/internal/config"
	"zodguard/internal/governor"
	"zodguard/internal/issue"
	"zodguard/internal/objectval"
	"zodguard/internal/saferegex"
	"zodguard/internal/synx"
)

// Rule bounds and constrains the arguments accepted by one chain method.
type Rule struct {
	Min, Max         int
	AllowFunction    bool
	AllowSchema      bool
	ValidateFunction bool
	ValidateRegex    bool
}

// Table maps method name to its argument rule. A method absent from Table
// accepts any arguments — the Chain Validator already gates the method
// name itself.
var Table = map[string]Rule{
	"refine":    {Min: 1, Max: 2, AllowFunction: true, ValidateFunction: true},
	"transform": {Min: 1, Max: 1, AllowFunction: true, ValidateFunction: true},
	"pipe":      {Min: 1, Max: 1, AllowSchema: true},
	"regex":     {Min: 1, Max: 2, ValidateRegex: true},
	"object":    {Min: 1, Max: 1},
}

// Validator checks call-expression argument lists against Table, Config,
// and the Object Validator/Safe-Regex Oracle it delegates to.
type Validator struct {
	cfg      config.Config
	reporter *issue.Reporter
	gov      *governor.Governor
	oracle   saferegex.Oracle
	objects  *objectval.Validator
}

// New returns a Validator that shares reporter and gov with the rest of
// the pipeline, and delegates object arguments to objects.
func New(cfg config.Config, reporter *issue.Reporter, gov *governor.Governor, objects *objectval.Validator, oracle saferegex.Oracle) *Validator {
	return &Validator{cfg: cfg, reporter: reporter, gov: gov, oracle: oracle, objects: objects}
}

// Validate checks the argument list of a call to method, per spec.md
// §4.5. depth is the current argument-nesting depth (0 at the method
// call itself).
func (v *Validator) Validate(method string, args []*synx.Node, depth int) bool {
	rule, known := Table[method]
	if !known {
		// No entry: accept any arguments. The Chain Validator already
		// confirmed method is a known constructor or chain method.
		return true
	}
	return v.validateWithRule(method, rule, args, depth)
}

func (v *Validator) validateWithRule(method string, rule Rule, args []*synx.Node, depth int) bool {
	if len(args) < rule.Min || len(args) > rule.Max {
		v.reporter.ReportAt(1, 0, fmt.Sprintf("Wrong number of arguments to %s: got %d, expected %d..%d", method, len(args), rule.Min, rule.Max), "call_expression")
		return false
	}

	if method == "refine" && len(args) > 0 && !isFunctionKind(args[0].Kind()) {
		v.reporter.Report(args[0], fmt.Sprintf("Argument 0 to refine must be a function, found %s", args[0].Kind()), args[0].Kind())
		return false
	}

	for i, arg := range args {
		if err := v.gov.IncrementNode(); err != nil {
			v.reporter.Report(arg, "validation aborted: "+err.Error(), arg.Kind())
			return false
		}
		if !v.dispatch(method, i, arg, rule, depth) {
			return false
		}
	}
	return true
}

// dispatch validates a single argument per its grammar kind, following
// spec.md §4.5 steps 3-9 in order.
func (v *Validator) dispatch(method string, index int, arg *synx.Node, rule Rule, depth int) bool {
	if err := v.gov.TrackDepth(depth, governor.DepthArgument); err != nil {
		v.reporter.Report(arg, "Argument nesting depth exceeded", arg.Kind())
		return false
	}

	switch {
	case isFunctionKind(arg.Kind()):
		return v.validateFunctionArgument(method, arg, rule)

	case arg.Kind() == "object":
		return v.objects.Validate(arg, 0)

	case arg.Kind() == "array":
		return v.validateArrayArgument(arg, depth)

	case arg.Kind() == "regex":
		return v.validateRegexArgument(arg, rule)

	case arg.Kind() == "string":
		return v.validateStringArgument(arg)

	case isAcceptedLiteralKind(arg.Kind()):
		return true

	case arg.Kind() == "identifier":
		return true

	case arg.Kind() == "call_expression":
		if isWellFormedSchemaCall(arg) {
			return true
		}
		v.reporter.Report(arg, fmt.Sprintf("Unexpected argument type for method %s: %s", method, arg.Kind()), arg.Kind())
		return false

	default:
		v.reporter.Report(arg, fmt.Sprintf("Unexpected argument type for method %s: %s", method, arg.Kind()), arg.Kind())
		return false
	}
}

func (v *Validator) validateFunctionArgument(method string, arg *synx.Node, rule Rule) bool {
	if !rule.AllowFunction {
		v.reporter.Report(arg, fmt.Sprintf("Function arguments not allowed for method %s", method), arg.Kind())
		return false
	}
	if !rule.ValidateFunction {
		return true
	}
	if isAsyncFunction(arg) {
		v.reporter.Report(arg, "Async functions not allowed in schema validation", arg.Kind())
		return false
	}
	if arg.Kind() == "generator_function" {
		v.reporter.Report(arg, "Generator functions not allowed in schema validation", arg.Kind())
		return false
	}
	return v.validateFunctionBody(arg)
}

// validateFunctionBody implements the function-body safety hook decided
// in the open-question section. Each top-level statement of a block body
// must be a return statement, a throw of a string literal or a `new`
// expression, or an expression statement holding an identifier, a
// literal, a plain object/array literal, or a z.-rooted call chain.
// Returned expressions and statements nested inside accepted ones are not
// inspected, and a concise arrow body is accepted without inspection.
func (v *Validator) validateFunctionBody(fn *synx.Node) bool {
	body := fn.Field("body")
	if body == nil {
		return true
	}
	if body.Kind() != "statement_block" {
		// Concise arrow body (an expression, not a block): not inspected.
		return true
	}
	for _, stmt := range body.NamedChildren() {
		if err := v.gov.IncrementNode(); err != nil {
			v.reporter.Report(stmt, "validation aborted: "+err.Error(), stmt.Kind())
			return false
		}
		if !isSafeBodyStatement(stmt) {
			v.reporter.Report(stmt, fmt.Sprintf("Function body contains disallowed statement: %s", stmt.Kind()), stmt.Kind())
			return false
		}
	}
	return true
}

func isSafeBodyStatement(stmt *synx.Node) bool {
	switch stmt.Kind() {
	case "return_statement":
		return true
	case "throw_statement":
		val := stmt.NamedChild(0)
		return val != nil && (val.Kind() == "string" || (val.Kind() == "new_expression" && val.Field("constructor") != nil))
	case "expression_statement":
		expr := stmt.NamedChild(0)
		return expr != nil && isSafeBodyExpression(expr)
	default:
		return false
	}
}

func isSafeBodyExpression(expr *synx.Node) bool {
	switch expr.Kind() {
	case "identifier", "string", "number", "true", "false", "null", "object", "array":
		return true
	case "call_expression", "member_expression":
		return isWellFormedSchemaCall(expr)
	default:
		return false
	}
}

func (v *Validator) validateArrayArgument(arr *synx.Node, depth int) bool {
	elements := arr.NamedChildren()
	if err := v.gov.ValidateSize(len(elements), v.cfg.Limits.MaxPropertiesPerObject, "array elements"); err != nil {
		v.reporter.Report(arr, fmt.Sprintf("Array exceeds maximum element count of %d", v.cfg.Limits.MaxPropertiesPerObject), arr.Kind())
		return false
	}
	elementRule := Rule{Min: 0, Max: math.MaxInt, AllowFunction: false, AllowSchema: false}
	for _, el := range elements {
		if !v.dispatch("array", 0, el, elementRule, depth+1) {
			return false
		}
	}
	return true
}

func (v *Validator) validateRegexArgument(arg *synx.Node, rule Rule) bool {
	pattern := regexLiteralPattern(arg.Text())
	if err := v.gov.ValidateSize(len(pattern), v.cfg.Limits.MaxStringLength, "regex pattern"); err != nil {
		v.reporter.Report(arg, fmt.Sprintf("Regex pattern exceeds maximum length of %d", v.cfg.Limits.MaxStringLength), arg.Kind())
		return false
	}
	if !rule.ValidateRegex {
		return true
	}
	safe, reason, err := v.oracle.Check(pattern)
	if err != nil {
		v.reporter.Report(arg, "Invalid regex pattern: "+err.Error(), arg.Kind())
		return false
	}
	if !safe {
		v.reporter.Report(arg, reason, arg.Kind())
		return false
	}
	return true
}

func (v *Validator) validateStringArgument(arg *synx.Node) bool {
	length := len(unquoteString(arg.Text()))
	if err := v.gov.ValidateSize(length, v.cfg.Limits.MaxStringLength, "string argument"); err != nil {
		v.reporter.Report(arg, fmt.Sprintf("String argument exceeds maximum length of %d", v.cfg.Limits.MaxStringLength), arg.Kind())
		return false
	}
	return true
}

func isFunctionKind(kind string) bool {
	switch kind {
	case "arrow_function", "function", "function_expression", "generator_function":
		return true
	default:
		return false
	}
}

func isAcceptedLiteralKind(kind string) bool {
	switch kind {
	case "number", "true", "false", "null", "undefined":
		return true
	default:
		return false
	}
}

func isAsyncFunction(fn *synx.Node) bool {
	for i := 0; i < fn.ChildCount(); i++ {
		c := fn.Child(i)
		if c.Kind() == "async" {
			return true
		}
		if c.Kind() == "(" || c.Kind() == "formal_parameters" {
			return false
		}
	}
	return false
}

// isWellFormedSchemaCall mirrors the Chain Validator's leftmost-identifier
// and method-name checks (spec.md §4.4) without importing internal/chainval,
// which itself depends on this package for argument-rule dispatch.
func isWellFormedSchemaCall(node *synx.Node) bool {
	switch node.Kind() {
	case "call_expression":
		return isWellFormedSchemaCall(node.Field("function"))
	case "member_expression":
		if node.Field("property") == nil || !isIdentifierLike(node.Field("property")) {
			return false
		}
		if !allowlist.IsAllowed(node.Field("property").Text()) {
			return false
		}
		return isWellFormedSchemaCall(node.Field("object"))
	case "identifier":
		return node.Text() == "z"
	default:
		return false
	}
}

func isIdentifierLike(n *synx.Node) bool {
	return n != nil && (n.Kind() == "property_identifier" || n.Kind() == "identifier")
}

func regexLiteralPattern(literal string) string {
	// /pattern/flags -> pattern
	if len(literal) < 2 || literal[0] != '/' {
		return literal
	}
	end := len(literal) - 1
	for end > 0 && literal[end] != '/' {
		end--
	}
	if end <= 0 {
		return literal
	}
	return literal[1:end]
}

func unquoteString(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
