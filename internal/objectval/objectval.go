// Package objectval implements the Object Validator from spec.md §4.3:
// depth and property-count caps, then an ordered per-property policy
// (spread, method, getter/setter, computed key, key identity, key-name
// safety) with recursion into nested object literals.
package objectval

import (
	"fmt"
	"strings"

	"zodguard/internal/config"
	"zodguard/internal/governor"
	"zodguard/internal/issue"
	"zodguard/internal/synx"
)

// Validator checks object-literal nodes against a Config's depth,
// property-count, and property-name policy.
type Validator struct {
	cfg      config.Config
	reporter *issue.Reporter
	gov      *governor.Governor
	cache    map[[2]uint32]bool
}

// New returns a Validator that reports against reporter and charges node
// and depth accounting to gov.
func New(cfg config.Config, reporter *issue.Reporter, gov *governor.Governor) *Validator {
	v := &Validator{cfg: cfg, reporter: reporter, gov: gov}
	if cfg.Features.EnableCaching {
		v.cache = make(map[[2]uint32]bool)
	}
	return v
}

// Validate checks node, an object-literal node, at the given nesting
// depth (0 for a top-level object). It returns false and reports issues
// on the first failing property, per spec.md §4.3's short-circuit rule.
func (v *Validator) Validate(node *synx.Node, depth int) bool {
	if v.cache != nil {
		if ok, hit := v.cache[node.Identity()]; hit {
			return ok
		}
	}
	ok := v.validate(node, depth)
	if v.cache != nil {
		v.cache[node.Identity()] = ok
	}
	return ok
}

func (v *Validator) validate(node *synx.Node, depth int) bool {
	if err := v.gov.TrackDepth(depth, governor.DepthObject); err != nil {
		v.reporter.Report(node, fmt.Sprintf("Object exceeds maximum nesting depth of %d", v.cfg.Limits.MaxObjectDepth), node.Kind())
		return false
	}

	properties := node.NamedChildren()
	if err := v.gov.ValidateSize(len(properties), v.cfg.Limits.MaxPropertiesPerObject, "properties"); err != nil {
		v.reporter.Report(node, fmt.Sprintf("Object exceeds maximum property count of %d", v.cfg.Limits.MaxPropertiesPerObject), node.Kind())
		return false
	}

	for _, prop := range properties {
		if err := v.gov.IncrementNode(); err != nil {
			v.reporter.Report(prop, "validation aborted: "+err.Error(), prop.Kind())
			return false
		}
		if !v.validateProperty(prop, depth) {
			return false
		}
	}
	return true
}

func (v *Validator) validateProperty(prop *synx.Node, depth int) bool {
	switch prop.Kind() {
	case "spread_element":
		v.reporter.Report(prop, "Spread elements are not allowed in objects", prop.Kind())
		return false

	case "method_definition":
		if isGetterSetter(prop) {
			v.reporter.Report(prop, "Getter/setter methods are not allowed", prop.Kind())
		} else {
			v.reporter.Report(prop, "Object methods not allowed", prop.Kind())
		}
		return false

	default:
		return v.validateOrdinaryProperty(prop, depth)
	}
}

// validateOrdinaryProperty handles "pair" ({key: value}) and
// "shorthand_property_identifier" ({key}) nodes.
func (v *Validator) validateOrdinaryProperty(prop *synx.Node, depth int) bool {
	key := prop.Field("key")
	if key == nil {
		// Shorthand property: the node itself is both key and reference.
		key = prop
	}

	if key.Kind() == "computed_property_name" {
		if !v.cfg.Features.AllowComputedProperties {
			v.reporter.Report(prop, "Computed properties are not allowed", prop.Kind())
			return false
		}
		// Computed and allowed: no static name to check, nothing further
		// to validate from the object validator's side.
		return true
	}

	name, ok := staticKeyName(key)
	if !ok {
		v.reporter.Report(prop, "Object keys must be an identifier or a string literal", prop.Kind())
		return false
	}

	switch v.cfg.PropertySafety.CheckProperty(name) {
	case config.PropertyDenied:
		v.reporter.Report(prop, fmt.Sprintf("Property name '%s' is not allowed", name), prop.Kind(), issue.AsWarning())
	case config.PropertyForbiddenPrefix:
		v.reporter.Report(prop, fmt.Sprintf("Property name '%s' uses a forbidden prefix", name), prop.Kind())
		return false
	case config.PropertyNotAllowlisted:
		v.reporter.Report(prop, fmt.Sprintf("Property name '%s' is not in the allowed list", name), prop.Kind())
		return false
	}

	value := prop.Field("value")
	if value == nil {
		// Shorthand property: no separate value expression to recurse into.
		return true
	}
	if value.Kind() == "object" {
		return v.validate(value, depth+1)
	}
	// Any other value kind is validated later, when reached as an
	// argument, by the Argument/Chain Validators.
	return true
}

// staticKeyName returns the property name for an identifier or string
// literal key, or ("", false) for anything else.
func staticKeyName(key *synx.Node) (string, bool) {
	switch key.Kind() {
	case "property_identifier", "identifier", "shorthand_property_identifier":
		return key.Text(), true
	case "string":
		return unquote(key.Text()), true
	default:
		return "", false
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// isGetterSetter reports whether a method_definition node is declared
// with a leading "get" or "set" keyword token.
func isGetterSetter(method *synx.Node) bool {
	for i := 0; i < method.ChildCount(); i++ {
		c := method.Child(i)
		switch c.Kind() {
		case "get", "set":
			return true
		case "property_identifier":
			// Reached the method name before any get/set keyword.
			return false
		}
		if strings.HasPrefix(c.Text(), "(") {
			return false
		}
	}
	return false
}
