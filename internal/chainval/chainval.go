// Package chainval implements the Chain Validator from spec.md §4.4: a
// depth-first recognizer for the CallExpression/MemberExpression grammar
// a Zod schema chain is built from, delegating argument checks to the
// Argument Validator once a method name is resolved.
package chainval

import (
	"fmt"

	"zodguard/internal/allowlist"
	"zodguard/internal/argval"
	"zodguard/internal/config"
	"zodguard/internal/governor"
	"zodguard/internal/issue"
	"zodguard/internal/synx"
)

// Validator recognizes and validates a Zod schema expression chain.
type Validator struct {
	cfg      config.Config
	reporter *issue.Reporter
	gov      *governor.Governor
	args     *argval.Validator
}

// New returns a Validator sharing reporter and gov with the rest of the
// pipeline, delegating argument lists to args.
func New(cfg config.Config, reporter *issue.Reporter, gov *governor.Governor, args *argval.Validator) *Validator {
	return &Validator{cfg: cfg, reporter: reporter, gov: gov, args: args}
}

// Validate checks node as a schema expression, starting at chain depth 0.
func (v *Validator) Validate(node *synx.Node) bool {
	return v.validate(node, 0)
}

func (v *Validator) validate(node *synx.Node, depth int) bool {
	if err := v.gov.IncrementNode(); err != nil {
		v.reporter.Report(node, "validation aborted: "+err.Error(), node.Kind())
		return false
	}
	if err := v.gov.TrackDepth(depth, governor.DepthChain); err != nil {
		v.reporter.Report(node, fmt.Sprintf("Chain nesting depth exceeded maximum of %d", v.cfg.Limits.MaxChainDepth), node.Kind())
		return false
	}

	switch node.Kind() {
	case "identifier":
		if node.Text() != "z" {
			v.reporter.Report(node, fmt.Sprintf("Chain must start with 'z', found: %s", node.Text()), node.Kind())
			return false
		}
		return true

	case "subscript_expression":
		v.reporter.Report(node, "Computed properties not allowed in chain", node.Kind())
		return false

	case "member_expression":
		return v.validateMember(node, depth)

	case "call_expression":
		return v.validateCall(node, depth)

	default:
		v.reporter.Report(node, fmt.Sprintf("Unexpected expression in schema chain: %s", node.Kind()), node.Kind())
		return false
	}
}

func (v *Validator) validateMember(node *synx.Node, depth int) bool {
	property := node.Field("property")
	if property == nil || property.Kind() != "property_identifier" {
		v.reporter.Report(node, "Chain member property must be an identifier", node.Kind())
		return false
	}
	name := property.Text()
	if !allowlist.IsAllowed(name) {
		v.reporter.Report(node, fmt.Sprintf("Method not allowed in chain: %s", name), node.Kind(), issue.WithSuggestion("Use only allowed Zod methods"))
		return false
	}
	object := node.Field("object")
	if object == nil {
		return false
	}
	return v.validate(object, depth+1)
}

func (v *Validator) validateCall(node *synx.Node, depth int) bool {
	fn := node.Field("function")
	if fn == nil {
		v.reporter.Report(node, "Call has no callee", node.Kind())
		return false
	}
	if !v.validate(fn, depth+1) {
		return false
	}

	method := methodNameOf(fn)
	if method == "" {
		return true
	}

	var args []*synx.Node
	if argsNode := node.Field("arguments"); argsNode != nil {
		args = argsNode.NamedChildren()
	}
	return v.args.Validate(method, args, 0)
}

// methodNameOf returns the method name a call expression's callee
// resolves to, or "" if the callee is not a member access (e.g. a bare
// `z(...)` call, which has no method to look up in the argument table).
func methodNameOf(fn *synx.Node) string {
	if fn.Kind() != "member_expression" {
		return ""
	}
	property := fn.Field("property")
	if property == nil {
		return ""
	}
	return property.Text()
}
