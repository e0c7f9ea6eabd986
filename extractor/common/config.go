package common

import (
	"fmt"
	"regexp"

	"github.com/aqlanhadi/slipscan/extractor/normalizer"
	"github.com/spf13/viper"
)

// DialectKey returns the viper key of a dialect setting, for example
// dialects.SCB.patterns.date.
func DialectKey(dialect, name string) string {
	return "dialects." + dialect + "." + name
}

// PatternFrom compiles the pattern configured under key, falling back to def
// when the key is unset or v is nil.
func PatternFrom(v *viper.Viper, key string, def *regexp.Regexp) (*regexp.Regexp, error) {
	if v == nil || !v.IsSet(key) {
		return def, nil
	}
	re, err := regexp.Compile(v.GetString(key))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", key, err)
	}
	return re, nil
}

// StringsFrom returns the list configured under key or def.
func StringsFrom(v *viper.Viper, key string, def []string) []string {
	if v == nil || !v.IsSet(key) {
		return def
	}
	values := v.GetStringSlice(key)
	if len(values) == 0 {
		return def
	}
	return values
}

// NoiseFrom reads extra noise rules for a dialect. They are added to the
// built-in rules, never replacing them, since field offsets depend on those.
func NoiseFrom(v *viper.Viper, dialect string) normalizer.Rules {
	if v == nil {
		return normalizer.Rules{}
	}
	return normalizer.Rules{
		DropLines:    v.GetStringSlice(DialectKey(dialect, "noise.drop_lines")),
		DropPrefixes: v.GetStringSlice(DialectKey(dialect, "noise.drop_prefixes")),
	}
}
