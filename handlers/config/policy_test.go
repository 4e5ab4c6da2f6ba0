package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/models"
	"github.com/Meesho/BharatMLStack/price-inferflow/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinPoliciesAreValid(t *testing.T) {
	for _, name := range BuiltinPolicyNames() {
		t.Run(name, func(t *testing.T) {
			p, err := GetBuiltinPolicy(name)
			require.NoError(t, err)
			assert.Equal(t, name, p.Name)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestGetBuiltinPolicyUnknown(t *testing.T) {
	_, err := GetBuiltinPolicy("three_level")
	var policyErr *errors.PolicyError
	require.ErrorAs(t, err, &policyErr)
	assert.Equal(t, "three_level", policyErr.Policy)
}

func TestBuiltinPoliciesAreIndependentCopies(t *testing.T) {
	a := TwoLevelPolicy()
	a.Segments[0] = "changed"
	assert.Equal(t, "budget", TwoLevelPolicy().Segments[0])
}

func TestTierLabels(t *testing.T) {
	p := MultiSignalPolicy()
	assert.Equal(t, []string{"flagship", "premium", "flexible"}, p.TierLabels(models.FieldBrandTier))
	assert.Equal(t, []string{"low", "mid", "high"}, p.TierLabels("rom_tier"))
	assert.Nil(t, p.TierLabels("battery_tier"))
	assert.Equal(t, []string{models.FieldBrandTier, "ram_tier", "rom_tier", "camera_tier"}, p.TierFields())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Policy)
	}{
		{"no segments", func(p *Policy) { p.Segments = nil }},
		{"duplicate segment", func(p *Policy) { p.Segments = append(p.Segments, "mid") }},
		{"empty catch-all", func(p *Policy) { p.CatchAllBrandTier = "" }},
		{"brand in two tiers", func(p *Policy) { p.BrandTiers[1].Brands = append(p.BrandTiers[1].Brands, "Apple") }},
		{"catch-all clashes with tier", func(p *Policy) { p.CatchAllBrandTier = "premium" }},
		{"bucket bounds not increasing", func(p *Policy) { p.NumericTiers[0].Buckets[1].Max = 4 }},
		{"empty else label", func(p *Policy) { p.NumericTiers[0].Else = "" }},
		{"non-numeric tier source", func(p *Policy) { p.NumericTiers[0].Source = models.FieldBrand }},
		{"undeclared rule segment", func(p *Policy) { p.Rules[0].Segment = "luxury" }},
		{"unknown match mode", func(p *Policy) { p.Rules[0].Match = "some" }},
		{"unknown operator", func(p *Policy) { p.Rules[0].Conditions[1].Op = "ne" }},
		{"unknown label", func(p *Policy) { p.Rules[1].Conditions[0].In = []string{"luxury"} }},
		{"unknown categorical field", func(p *Policy) { p.Rules[1].Conditions[0].Field = "os_tier" }},
		{"last rule conditional", func(p *Policy) { p.Rules = p.Rules[:2] }},
		{"no rules", func(p *Policy) { p.Rules = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := TwoLevelPolicy()
			tt.mutate(p)
			var policyErr *errors.PolicyError
			assert.ErrorAs(t, p.Validate(), &policyErr)
		})
	}
}

func TestValidateAcceptsDerivedNumericFields(t *testing.T) {
	p := TwoLevelPolicy()
	p.Rules = append([]Rule{{Segment: "premium", Conditions: []Condition{
		{Field: models.FieldStoragePerRAM, Op: OpGreaterThan, Value: 64},
	}}}, p.Rules...)
	assert.NoError(t, p.Validate())
}

func TestLoadPolicyBuiltin(t *testing.T) {
	p, err := LoadPolicy(PolicyMultiSignal, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"budget", "mid", "premium", "flagship"}, p.Segments)
}

const yamlPolicy = `
segments: [low, high]
brand_tiers:
  - tier: top
    brands: [Apple]
catch_all_brand_tier: rest
numeric_tiers:
  - name: ram_tier
    source: RAM (GB)
    buckets:
      - max: 6
        label: small
    else: large
rules:
  - segment: high
    match: any
    conditions:
      - field: brand_tier
        in: [top]
      - field: ram_tier
        in: [large]
  - segment: low
`

func TestLoadPolicyFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlPolicy), 0o600))

	p, err := LoadPolicy("custom", path)
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)
	assert.Equal(t, []string{"low", "high"}, p.Segments)
	require.Len(t, p.NumericTiers, 1)
	assert.Equal(t, 6.0, p.NumericTiers[0].Buckets[0].Max)
	assert.Equal(t, MatchAny, p.Rules[0].Match)
	assert.Empty(t, p.Rules[1].Conditions)
}

func TestLoadPolicyFromJSONFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"broken","segments":["a"],"catch_all_brand_tier":"x","rules":[{"segment":"b"}]}`), 0o600))

	_, err := LoadPolicy("broken", path)
	var policyErr *errors.PolicyError
	require.ErrorAs(t, err, &policyErr)
	assert.Contains(t, err.Error(), "undeclared segment")
}

func TestLoadPolicyMissingFile(t *testing.T) {
	_, err := LoadPolicy("two_level", filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
