package config

// Condition operators for numeric comparisons.
const (
	OpGreaterThan      = "gt"
	OpGreaterThanEqual = "gte"
	OpLessThan         = "lt"
	OpLessThanEqual    = "lte"
	OpEqual            = "eq"
)

// Rule match modes.
const (
	MatchAll = "all"
	MatchAny = "any"
)

// Policy is one routing/feature configuration: the brand and numeric tier tables the
// deriver applies and the ordered rule chain the router evaluates. It must mirror the
// tables the deployed models were trained with.
type Policy struct {
	Name              string        `json:"name"`
	Segments          []string      `json:"segments"`
	BrandTiers        []BrandTier   `json:"brand_tiers"`
	CatchAllBrandTier string        `json:"catch_all_brand_tier"`
	NumericTiers      []NumericTier `json:"numeric_tiers"`
	Rules             []Rule        `json:"rules"`
}

type BrandTier struct {
	Tier   string   `json:"tier"`
	Brands []string `json:"brands"`
}

// NumericTier buckets Source into Name. Buckets are upper-inclusive and ordered by Max:
// a value gets the label of the first bucket with value <= Max, otherwise Else.
type NumericTier struct {
	Name    string   `json:"name"`
	Source  string   `json:"source"`
	Buckets []Bucket `json:"buckets"`
	Else    string   `json:"else"`
}

type Bucket struct {
	Max   float64 `json:"max"`
	Label string  `json:"label"`
}

// Rule routes to Segment when its conditions hold. A rule with no conditions always
// matches; the last rule of a policy must be one.
type Rule struct {
	Segment    string      `json:"segment"`
	Match      string      `json:"match"`
	Conditions []Condition `json:"conditions"`
}

// Condition is either a label membership test (In) or a numeric comparison (Op, Value).
type Condition struct {
	Field string   `json:"field"`
	In    []string `json:"in"`
	Op    string   `json:"op"`
	Value float64  `json:"value"`
}

func (c Condition) IsMembership() bool {
	return len(c.In) > 0
}
