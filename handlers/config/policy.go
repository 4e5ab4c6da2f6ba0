package config

import (
	"fmt"
	"math"

	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/models"
	"github.com/Meesho/BharatMLStack/price-inferflow/internal/errors"
	pkgconfig "github.com/Meesho/BharatMLStack/price-inferflow/pkg/config"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/logger"
)

const (
	PolicyTwoLevel    = "two_level"
	PolicyMultiSignal = "multi_signal"
)

var builtinPolicies = map[string]func() *Policy{
	PolicyTwoLevel:    TwoLevelPolicy,
	PolicyMultiSignal: MultiSignalPolicy,
}

// TwoLevelPolicy routes on brand tier with a RAM override.
func TwoLevelPolicy() *Policy {
	return &Policy{
		Name:     PolicyTwoLevel,
		Segments: []string{"budget", "mid", "premium"},
		BrandTiers: []BrandTier{
			{Tier: "premium", Brands: []string{"Apple", "Google", "OnePlus"}},
			{Tier: "mid", Brands: []string{"Nothing", "Samsung"}},
		},
		CatchAllBrandTier: "budget",
		NumericTiers: []NumericTier{
			{
				Name:   "ram_tier",
				Source: models.FieldRAM,
				Buckets: []Bucket{
					{Max: 4, Label: "basic"},
					{Max: 8, Label: "mid"},
					{Max: 12, Label: "high"},
				},
				Else: "ultra",
			},
		},
		Rules: []Rule{
			{Segment: "premium", Match: MatchAny, Conditions: []Condition{
				{Field: models.FieldBrandTier, In: []string{"premium"}},
				{Field: models.FieldRAM, Op: OpGreaterThanEqual, Value: 12},
			}},
			{Segment: "budget", Match: MatchAll, Conditions: []Condition{
				{Field: models.FieldBrandTier, In: []string{"budget"}},
				{Field: models.FieldRAM, Op: OpLessThanEqual, Value: 6},
			}},
			{Segment: "mid"},
		},
	}
}

// MultiSignalPolicy routes flagship and premium brands directly and stratifies every
// other brand on the joint RAM, ROM and camera tiers.
func MultiSignalPolicy() *Policy {
	return &Policy{
		Name:     PolicyMultiSignal,
		Segments: []string{"budget", "mid", "premium", "flagship"},
		BrandTiers: []BrandTier{
			{Tier: "flagship", Brands: []string{"Apple", "Google", "Samsung"}},
			{Tier: "premium", Brands: []string{"OnePlus", "Nothing", "Motorola"}},
		},
		CatchAllBrandTier: "flexible",
		NumericTiers: []NumericTier{
			{
				Name:    "ram_tier",
				Source:  models.FieldRAM,
				Buckets: []Bucket{{Max: 4, Label: "low"}, {Max: 8, Label: "mid"}},
				Else:    "high",
			},
			{
				Name:    "rom_tier",
				Source:  models.FieldROM,
				Buckets: []Bucket{{Max: 64, Label: "low"}, {Max: 256, Label: "mid"}},
				Else:    "high",
			},
			{
				Name:    "camera_tier",
				Source:  models.FieldBackCamera,
				Buckets: []Bucket{{Max: 16, Label: "low"}, {Max: 50, Label: "mid"}},
				Else:    "high",
			},
		},
		Rules: []Rule{
			{Segment: "flagship", Conditions: []Condition{
				{Field: models.FieldBrandTier, In: []string{"flagship"}},
			}},
			{Segment: "premium", Conditions: []Condition{
				{Field: models.FieldBrandTier, In: []string{"premium"}},
			}},
			{Segment: "premium", Match: MatchAll, Conditions: []Condition{
				{Field: "ram_tier", In: []string{"high"}},
				{Field: "rom_tier", In: []string{"high"}},
				{Field: "camera_tier", In: []string{"high"}},
			}},
			{Segment: "mid", Match: MatchAll, Conditions: []Condition{
				{Field: "camera_tier", In: []string{"high"}},
				{Field: "ram_tier", In: []string{"mid", "high"}},
			}},
			{Segment: "mid", Match: MatchAll, Conditions: []Condition{
				{Field: "ram_tier", In: []string{"mid", "high"}},
				{Field: "rom_tier", In: []string{"mid", "high"}},
			}},
			{Segment: "budget"},
		},
	}
}

// BuiltinPolicyNames returns the names accepted by GetBuiltinPolicy.
func BuiltinPolicyNames() []string {
	return []string{PolicyTwoLevel, PolicyMultiSignal}
}

func GetBuiltinPolicy(name string) (*Policy, error) {
	builder, ok := builtinPolicies[name]
	if !ok {
		return nil, &errors.PolicyError{Policy: name, ErrorMsg: "unknown built-in policy"}
	}
	return builder(), nil
}

// LoadPolicy returns the policy from file when set, else the named built-in. The
// returned policy has been validated.
func LoadPolicy(name, file string) (*Policy, error) {
	var policy *Policy
	if file != "" {
		policy = &Policy{}
		defaults := map[string]interface{}{"name": name}
		if err := pkgconfig.LoadFile(file, defaults, policy); err != nil {
			return nil, &errors.PolicyError{Policy: name, ErrorMsg: err.Error()}
		}
		logger.Info(fmt.Sprintf("Pricing policy %s loaded from %s", policy.Name, file))
	} else {
		var err error
		if policy, err = GetBuiltinPolicy(name); err != nil {
			return nil, err
		}
		logger.Info(fmt.Sprintf("Using built-in pricing policy %s", policy.Name))
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// TierFields returns the categorical fields the policy derives, brand tier first.
func (p *Policy) TierFields() []string {
	fields := make([]string, 0, len(p.NumericTiers)+1)
	fields = append(fields, models.FieldBrandTier)
	for _, t := range p.NumericTiers {
		fields = append(fields, t.Name)
	}
	return fields
}

// TierLabels returns every label field can take, or nil if field is not a tier field.
func (p *Policy) TierLabels(field string) []string {
	if field == models.FieldBrandTier {
		labels := make([]string, 0, len(p.BrandTiers)+1)
		for _, bt := range p.BrandTiers {
			labels = append(labels, bt.Tier)
		}
		return append(labels, p.CatchAllBrandTier)
	}
	for _, t := range p.NumericTiers {
		if t.Name == field {
			labels := make([]string, 0, len(t.Buckets)+1)
			for _, b := range t.Buckets {
				labels = append(labels, b.Label)
			}
			return append(labels, t.Else)
		}
	}
	return nil
}

func (p *Policy) HasSegment(segment string) bool {
	for _, s := range p.Segments {
		if s == segment {
			return true
		}
	}
	return false
}

func (p *Policy) Validate() error {
	if p == nil {
		return &errors.PolicyError{Policy: "<nil>", ErrorMsg: "policy is nil"}
	}
	fail := func(format string, args ...interface{}) error {
		return &errors.PolicyError{Policy: p.Name, ErrorMsg: fmt.Sprintf(format, args...)}
	}
	if p.Name == "" {
		return fail("name is empty")
	}
	if len(p.Segments) == 0 {
		return fail("no segments declared")
	}
	if err := unique(p.Segments); err != "" {
		return fail("duplicate segment %q", err)
	}

	if p.CatchAllBrandTier == "" {
		return fail("catch-all brand tier is empty")
	}
	seenBrands := make(map[string]string)
	tiers := make([]string, 0, len(p.BrandTiers)+1)
	for _, bt := range p.BrandTiers {
		if bt.Tier == "" {
			return fail("brand tier with empty name")
		}
		tiers = append(tiers, bt.Tier)
		for _, b := range bt.Brands {
			if prev, ok := seenBrands[b]; ok {
				return fail("brand %q listed in tiers %q and %q", b, prev, bt.Tier)
			}
			seenBrands[b] = bt.Tier
		}
	}
	if dup := unique(append(tiers, p.CatchAllBrandTier)); dup != "" {
		return fail("duplicate brand tier %q", dup)
	}

	names := map[string]bool{models.FieldBrandTier: true, models.FieldBrand: true}
	for _, t := range p.NumericTiers {
		if t.Name == "" || t.Source == "" {
			return fail("numeric tier needs a name and a source")
		}
		if names[t.Name] {
			return fail("duplicate tier field %q", t.Name)
		}
		names[t.Name] = true
		if !isNumericField(t.Source) {
			return fail("tier %s: source %q is not a numeric field", t.Name, t.Source)
		}
		if t.Else == "" {
			return fail("tier %s: else label is empty", t.Name)
		}
		labels := []string{t.Else}
		for i, b := range t.Buckets {
			if b.Label == "" {
				return fail("tier %s: bucket %d has an empty label", t.Name, i)
			}
			if math.IsNaN(b.Max) || math.IsInf(b.Max, 0) {
				return fail("tier %s: bucket %d has a non-finite bound", t.Name, i)
			}
			if i > 0 && b.Max <= t.Buckets[i-1].Max {
				return fail("tier %s: bucket bounds must be strictly increasing", t.Name)
			}
			labels = append(labels, b.Label)
		}
		if dup := unique(labels); dup != "" {
			return fail("tier %s: duplicate label %q", t.Name, dup)
		}
	}

	if len(p.Rules) == 0 {
		return fail("no routing rules")
	}
	for i, r := range p.Rules {
		if !p.HasSegment(r.Segment) {
			return fail("rule %d routes to undeclared segment %q", i, r.Segment)
		}
		if r.Match != "" && r.Match != MatchAll && r.Match != MatchAny {
			return fail("rule %d: unknown match mode %q", i, r.Match)
		}
		for j, c := range r.Conditions {
			if err := p.validateCondition(c); err != "" {
				return fail("rule %d condition %d: %s", i, j, err)
			}
		}
	}
	if last := p.Rules[len(p.Rules)-1]; len(last.Conditions) != 0 {
		return fail("last rule must be unconditional so every request maps to a segment")
	}
	return nil
}

func (p *Policy) validateCondition(c Condition) string {
	if c.Field == "" {
		return "field is empty"
	}
	if c.IsMembership() {
		if c.Op != "" {
			return "condition sets both in and op"
		}
		if c.Field == models.FieldBrand {
			return ""
		}
		labels := p.TierLabels(c.Field)
		if labels == nil {
			return fmt.Sprintf("%q is not a categorical field", c.Field)
		}
		for _, v := range c.In {
			if !contains(labels, v) {
				return fmt.Sprintf("%q is not a label of %s", v, c.Field)
			}
		}
		return ""
	}
	switch c.Op {
	case OpGreaterThan, OpGreaterThanEqual, OpLessThan, OpLessThanEqual, OpEqual:
	default:
		return fmt.Sprintf("unknown operator %q", c.Op)
	}
	if !isNumericField(c.Field) && c.Field != models.FieldStoragePerRAM && c.Field != models.FieldCameraTotal {
		return fmt.Sprintf("%q is not a numeric field", c.Field)
	}
	return ""
}

func isNumericField(field string) bool {
	return contains(models.NumericFields, field)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// unique returns the first duplicated value, or "" if there is none.
func unique(values []string) string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return v
		}
		seen[v] = true
	}
	return ""
}
