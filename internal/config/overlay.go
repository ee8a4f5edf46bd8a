package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Override is a partial Config decoded from an overlay YAML file. Every
// field is a pointer/slice so "absent" is distinguishable from "zero".
type Override struct {
	Limits         *LimitsOverride `yaml:"limits"`
	PropertySafety *PropertySafety `yaml:"property_safety"`
	Features       *Features       `yaml:"features"`
}

// LimitsOverride mirrors Limits with pointer fields so a partial overlay
// only replaces the limits it actually sets.
type LimitsOverride struct {
	TimeoutMs              *int `yaml:"timeout_ms"`
	MaxNodeCount           *int `yaml:"max_node_count"`
	MaxObjectDepth         *int `yaml:"max_object_depth"`
	MaxChainDepth          *int `yaml:"max_chain_depth"`
	MaxArgumentNesting     *int `yaml:"max_argument_nesting"`
	MaxPropertiesPerObject *int `yaml:"max_properties_per_object"`
	MaxStringLength        *int `yaml:"max_string_length"`
}

// LoadOverride reads and decodes an overlay YAML file.
func LoadOverride(path string) (Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Override{}, fmt.Errorf("read config overlay %s: %w", path, err)
	}
	var o Override
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Override{}, fmt.Errorf("parse config overlay %s: %w", path, err)
	}
	return o, nil
}

// Overlay deep-merges override onto base: scalar limits are replaced when
// set, a features block, when present, replaces all feature flags at once
// (flags it omits become false), and PropertySafety allow/deny lists are unioned
// rather than replaced (spec.md §6: "the overlay deep-merges the
// PropertySafety sets (union of allow-lists and deny-lists)").
func Overlay(base Config, override Override) Config {
	out := base

	if l := override.Limits; l != nil {
		if l.TimeoutMs != nil {
			out.Limits.TimeoutMs = *l.TimeoutMs
		}
		if l.MaxNodeCount != nil {
			out.Limits.MaxNodeCount = *l.MaxNodeCount
		}
		if l.MaxObjectDepth != nil {
			out.Limits.MaxObjectDepth = *l.MaxObjectDepth
		}
		if l.MaxChainDepth != nil {
			out.Limits.MaxChainDepth = *l.MaxChainDepth
		}
		if l.MaxArgumentNesting != nil {
			out.Limits.MaxArgumentNesting = *l.MaxArgumentNesting
		}
		if l.MaxPropertiesPerObject != nil {
			out.Limits.MaxPropertiesPerObject = *l.MaxPropertiesPerObject
		}
		if l.MaxStringLength != nil {
			out.Limits.MaxStringLength = *l.MaxStringLength
		}
	}

	if ps := override.PropertySafety; ps != nil {
		out.PropertySafety.AllowedPrefixes = unionStrings(out.PropertySafety.AllowedPrefixes, ps.AllowedPrefixes)
		out.PropertySafety.DeniedPrefixes = unionStrings(out.PropertySafety.DeniedPrefixes, ps.DeniedPrefixes)
		out.PropertySafety.AllowedProperties = unionStrings(out.PropertySafety.AllowedProperties, ps.AllowedProperties)
		out.PropertySafety.DeniedProperties = unionStrings(out.PropertySafety.DeniedProperties, ps.DeniedProperties)
	}

	if f := override.Features; f != nil {
		out.Features = *f
	}

	return out
}

func unionStrings(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, s := range base {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range extra {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
