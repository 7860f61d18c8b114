package safeui

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Limits is the §4.7 aggregate limits table, exposed as a plain struct
// so a host can tune it (stricter for untrusted third-party authors,
// looser for an internal content pipeline) instead of it being baked in
// as unexported constants, mirroring the teacher's own
// `cmd/lvt/internal/config.Config` load-from-file pattern.
type Limits struct {
	CardBytes         int `yaml:"cardBytes"`
	TextContentBytes  int `yaml:"textContentBytes"`
	StyleBytes        int `yaml:"styleBytes"`
	NodeCount         int `yaml:"nodeCount"`
	LoopIterations    int `yaml:"loopIterations"`
	NestedLoopDepth   int `yaml:"nestedLoopDepth"`
	OverflowAutoCount int `yaml:"overflowAutoCount"`
	StackNestingDepth int `yaml:"stackNestingDepth"`
	SingleAssetBytes  int `yaml:"singleAssetBytes"`
	TotalAssetBytes   int `yaml:"totalAssetBytes"`
}

// DefaultLimits returns §4.7's table verbatim.
func DefaultLimits() Limits {
	return Limits{
		CardBytes:         1_000_000,
		TextContentBytes:  200_000,
		StyleBytes:        100_000,
		NodeCount:         10_000,
		LoopIterations:    1_000,
		NestedLoopDepth:   2,
		OverflowAutoCount: 2,
		StackNestingDepth: 3,
		SingleAssetBytes:  5_000_000,
		TotalAssetBytes:   50_000_000,
	}
}

// LoadLimitsFile reads a YAML overrides file and applies it on top of
// DefaultLimits: an omitted key keeps its default value rather than
// zeroing it out.
func LoadLimitsFile(path string) (Limits, error) {
	limits := DefaultLimits()
	data, err := os.ReadFile(path)
	if err != nil {
		return limits, fmt.Errorf("reading limits file: %w", err)
	}
	var override struct {
		CardBytes         *int `yaml:"cardBytes"`
		TextContentBytes  *int `yaml:"textContentBytes"`
		StyleBytes        *int `yaml:"styleBytes"`
		NodeCount         *int `yaml:"nodeCount"`
		LoopIterations    *int `yaml:"loopIterations"`
		NestedLoopDepth   *int `yaml:"nestedLoopDepth"`
		OverflowAutoCount *int `yaml:"overflowAutoCount"`
		StackNestingDepth *int `yaml:"stackNestingDepth"`
		SingleAssetBytes  *int `yaml:"singleAssetBytes"`
		TotalAssetBytes   *int `yaml:"totalAssetBytes"`
	}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return limits, fmt.Errorf("parsing limits file: %w", err)
	}
	applyIntOverride(&limits.CardBytes, override.CardBytes)
	applyIntOverride(&limits.TextContentBytes, override.TextContentBytes)
	applyIntOverride(&limits.StyleBytes, override.StyleBytes)
	applyIntOverride(&limits.NodeCount, override.NodeCount)
	applyIntOverride(&limits.LoopIterations, override.LoopIterations)
	applyIntOverride(&limits.NestedLoopDepth, override.NestedLoopDepth)
	applyIntOverride(&limits.OverflowAutoCount, override.OverflowAutoCount)
	applyIntOverride(&limits.StackNestingDepth, override.StackNestingDepth)
	applyIntOverride(&limits.SingleAssetBytes, override.SingleAssetBytes)
	applyIntOverride(&limits.TotalAssetBytes, override.TotalAssetBytes)
	return limits, nil
}

func applyIntOverride(dst *int, override *int) {
	if override != nil {
		*dst = *override
	}
}
