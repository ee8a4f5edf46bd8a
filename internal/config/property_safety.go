package config

import "strings"

// PropertyVerdict is the outcome of checking one object-literal property
// name against PropertySafety, per spec.md §4.3 step 3's ordered policy.
type PropertyVerdict int

const (
	// PropertyOK means the name passed every check.
	PropertyOK PropertyVerdict = iota
	// PropertyDenied means the name is in DeniedProperties (warning, not
	// an error — spec.md §4.3(a)).
	PropertyDenied
	// PropertyForbiddenPrefix means a DeniedPrefixes entry prefixes the
	// name (error — spec.md §4.3(b)).
	PropertyForbiddenPrefix
	// PropertyNotAllowlisted means AllowedProperties is non-empty and
	// does not contain the name (error — spec.md §4.3(c)).
	PropertyNotAllowlisted
)

// CheckProperty applies the three-step policy from spec.md §4.3 in order
// and returns the first matching verdict.
func (ps PropertySafety) CheckProperty(name string) PropertyVerdict {
	for _, d := range ps.DeniedProperties {
		if d == name {
			return PropertyDenied
		}
	}
	for _, prefix := range ps.DeniedPrefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return PropertyForbiddenPrefix
		}
	}
	if len(ps.AllowedProperties) > 0 {
		allowed := false
		for _, a := range ps.AllowedProperties {
			if a == name {
				allowed = true
				break
			}
		}
		if !allowed {
			return PropertyNotAllowlisted
		}
	}
	return PropertyOK
}
