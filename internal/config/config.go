// Package config holds the immutable run configuration for the validation
// pipeline: resource limits, feature flags, and property-name safety policy.
package config

import "time"

// Limits bounds node count, elapsed time, and the per-kind depth/size caps
// spec.md §3 assigns to Config.
type Limits struct {
	TimeoutMs              int `yaml:"timeout_ms" json:"timeout_ms"`
	MaxNodeCount            int `yaml:"max_node_count" json:"max_node_count"`
	MaxObjectDepth           int `yaml:"max_object_depth" json:"max_object_depth"`
	MaxChainDepth            int `yaml:"max_chain_depth" json:"max_chain_depth"`
	MaxArgumentNesting       int `yaml:"max_argument_nesting" json:"max_argument_nesting"`
	MaxPropertiesPerObject   int `yaml:"max_properties_per_object" json:"max_properties_per_object"`
	MaxStringLength          int `yaml:"max_string_length" json:"max_string_length"`
}

// Timeout returns TimeoutMs as a time.Duration.
func (l Limits) Timeout() time.Duration {
	return time.Duration(l.TimeoutMs) * time.Millisecond
}

// PropertySafety governs which object-literal property names survive
// validation (spec.md §3, §4.3).
type PropertySafety struct {
	AllowedPrefixes    []string `yaml:"allowed_prefixes" json:"allowed_prefixes"`
	DeniedPrefixes     []string `yaml:"denied_prefixes" json:"denied_prefixes"`
	AllowedProperties  []string `yaml:"allowed_properties" json:"allowed_properties"`
	DeniedProperties   []string `yaml:"denied_properties" json:"denied_properties"`
}

// Features toggles optional behaviors (spec.md §3's "feature flags").
type Features struct {
	AllowComputedProperties bool `yaml:"allow_computed_properties" json:"allow_computed_properties"`
	AllowLoops              bool `yaml:"allow_loops" json:"allow_loops"`
	AllowTemplateExprs      bool `yaml:"allow_template_exprs" json:"allow_template_exprs"`
	EnableCaching           bool `yaml:"enable_caching" json:"enable_caching"`
	UnwrapArrayRoot         bool `yaml:"unwrap_array_root" json:"unwrap_array_root"`
}

// SchemaUnification controls whether the orchestrator runs the Dependency
// Analyzer after a successful validation pass (spec.md §4.6 step 8).
type SchemaUnification struct {
	Enabled         bool `yaml:"enabled" json:"enabled"`
	UnwrapArrayRoot bool `yaml:"unwrap_array_root" json:"unwrap_array_root"`
}

// Config is the full, immutable set of knobs a single validate_schema call
// runs under.
type Config struct {
	Name              string            `yaml:"name" json:"name"`
	Limits            Limits            `yaml:"limits" json:"limits"`
	PropertySafety    PropertySafety    `yaml:"property_safety" json:"property_safety"`
	Features          Features          `yaml:"features" json:"features"`
	SchemaUnification SchemaUnification `yaml:"schema_unification" json:"schema_unification"`
}

// Validate reports a descriptive error if the configuration is internally
// inconsistent (negative limits, empty name, etc). It does not enforce
// monotonicity between presets — that is a cross-preset property tested in
// internal/config/config_test.go, not a property of any single Config.
func (c Config) Validate() error {
	switch {
	case c.Limits.TimeoutMs <= 0:
		return errInvalid("limits.timeout_ms must be > 0")
	case c.Limits.MaxNodeCount <= 0:
		return errInvalid("limits.max_node_count must be > 0")
	case c.Limits.MaxObjectDepth <= 0:
		return errInvalid("limits.max_object_depth must be > 0")
	case c.Limits.MaxChainDepth <= 0:
		return errInvalid("limits.max_chain_depth must be > 0")
	case c.Limits.MaxArgumentNesting <= 0:
		return errInvalid("limits.max_argument_nesting must be > 0")
	case c.Limits.MaxPropertiesPerObject <= 0:
		return errInvalid("limits.max_properties_per_object must be > 0")
	case c.Limits.MaxStringLength <= 0:
		return errInvalid("limits.max_string_length must be > 0")
	}
	return nil
}

type configError string

func (e configError) Error() string { return string(e) }

func errInvalid(msg string) error { return configError("config: " + msg) }
