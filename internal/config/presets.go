package config

// Preset names accepted by the --config CLI flag and the Preset function.
const (
	NameExtremelySafe = "extremelySafe"
	NameMedium        = "medium"
	NameRelaxed       = "relaxed"
)

// ExtremelySafe is the tightest preset: small bodies, short timeouts,
// shallow nesting. Intended for untrusted, low-trust LLM output reviewed
// with no human in the loop.
func ExtremelySafe() Config {
	return Config{
		Name: NameExtremelySafe,
		Limits: Limits{
			TimeoutMs:              1000,
			MaxNodeCount:           1000,
			MaxObjectDepth:         3,
			MaxChainDepth:          3,
			MaxArgumentNesting:     2,
			MaxPropertiesPerObject: 20,
			MaxStringLength:        100,
		},
		PropertySafety: PropertySafety{
			DeniedPrefixes: []string{"_", "$"},
			DeniedProperties: []string{
				"__proto__", "constructor", "prototype",
				"eval", "arguments", "process", "global", "window", "document",
			},
		},
		Features: Features{
			AllowComputedProperties: false,
			AllowLoops:              false,
			AllowTemplateExprs:      false,
			EnableCaching:           true,
		},
		SchemaUnification: SchemaUnification{Enabled: true},
	}
}

// Medium sits between ExtremelySafe and Relaxed: generous enough for real
// schemas, still bounded against pathological input.
func Medium() Config {
	return Config{
		Name: NameMedium,
		Limits: Limits{
			TimeoutMs:              8000,
			MaxNodeCount:           100000,
			MaxObjectDepth:         6,
			MaxChainDepth:          6,
			MaxArgumentNesting:     5,
			MaxPropertiesPerObject: 200,
			MaxStringLength:        2000,
		},
		PropertySafety: PropertySafety{
			DeniedPrefixes: []string{"__"},
			DeniedProperties: []string{
				"__proto__", "constructor", "prototype",
				"eval", "arguments", "process", "global", "window", "document",
			},
		},
		Features: Features{
			AllowComputedProperties: false,
			AllowLoops:              false,
			AllowTemplateExprs:      true,
			EnableCaching:           true,
		},
		SchemaUnification: SchemaUnification{Enabled: true},
	}
}

// Relaxed is the loosest preset: representative values from spec.md §6.
func Relaxed() Config {
	return Config{
		Name: NameRelaxed,
		Limits: Limits{
			TimeoutMs:              30000,
			MaxNodeCount:           1000000,
			MaxObjectDepth:         10,
			MaxChainDepth:          10,
			MaxArgumentNesting:     8,
			MaxPropertiesPerObject: 1000,
			MaxStringLength:        10000,
		},
		PropertySafety: PropertySafety{
			DeniedPrefixes:   []string{"__"},
			DeniedProperties: []string{"__proto__", "constructor"},
		},
		Features: Features{
			AllowComputedProperties: true,
			AllowLoops:              false,
			AllowTemplateExprs:      true,
			EnableCaching:           true,
		},
		SchemaUnification: SchemaUnification{Enabled: true},
	}
}

// Preset resolves a CLI preset name to its Config, defaulting to Relaxed
// per spec.md §6 ("default relaxed").
func Preset(name string) (Config, bool) {
	switch name {
	case NameExtremelySafe:
		return ExtremelySafe(), true
	case NameMedium:
		return Medium(), true
	case NameRelaxed, "":
		return Relaxed(), true
	default:
		return Config{}, false
	}
}
