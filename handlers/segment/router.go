package segment

import (
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/config"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/models"
)

// Router walks a policy's rule chain in order and returns the first matching segment.
type Router struct {
	policy string
	rules  []config.Rule
}

// NewRouter expects a validated policy, whose last rule always matches.
func NewRouter(policy *config.Policy) *Router {
	return &Router{policy: policy.Name, rules: policy.Rules}
}

func (r *Router) Route(f *models.EnrichedFeatures) models.Segment {
	segment, _ := r.Match(f)
	return segment
}

// Match returns the selected segment and the index of the rule that selected it, or
// ("", -1) when no rule matched.
func (r *Router) Match(f *models.EnrichedFeatures) (models.Segment, int) {
	for i, rule := range r.rules {
		if Matches(rule, f) {
			return models.Segment(rule.Segment), i
		}
	}
	return "", -1
}

func (r *Router) Policy() string {
	return r.policy
}

// Matches reports whether rule holds for f. A rule without conditions always holds.
func Matches(rule config.Rule, f *models.EnrichedFeatures) bool {
	if len(rule.Conditions) == 0 {
		return true
	}
	if rule.Match == config.MatchAny {
		for _, c := range rule.Conditions {
			if Evaluate(c, f) {
				return true
			}
		}
		return false
	}
	for _, c := range rule.Conditions {
		if !Evaluate(c, f) {
			return false
		}
	}
	return true
}

// Evaluate tests a single condition. A condition on a field f does not carry is false.
func Evaluate(c config.Condition, f *models.EnrichedFeatures) bool {
	if c.IsMembership() {
		label, ok := f.Label(c.Field)
		if !ok {
			return false
		}
		for _, in := range c.In {
			if label == in {
				return true
			}
		}
		return false
	}

	value, ok := f.Value(c.Field)
	if !ok {
		return false
	}
	switch c.Op {
	case config.OpGreaterThan:
		return value > c.Value
	case config.OpGreaterThanEqual:
		return value >= c.Value
	case config.OpLessThan:
		return value < c.Value
	case config.OpLessThanEqual:
		return value <= c.Value
	case config.OpEqual:
		return value == c.Value
	default:
		return false
	}
}
