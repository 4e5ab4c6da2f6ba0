package features

import (
	"fmt"
	"strings"

	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/config"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/models"
	"github.com/Meesho/BharatMLStack/price-inferflow/internal/errors"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/utils"
	"github.com/emirpasic/gods/sets/hashset"
)

type brandTier struct {
	tier   string
	brands *hashset.Set
}

// Deriver computes brand and numeric tiers plus the engineered ratios for a request.
// It only reads the tables it was built with, so it is safe for concurrent use.
type Deriver struct {
	brandTiers   []brandTier
	catchAll     string
	numericTiers []config.NumericTier
}

func NewDeriver(policy *config.Policy) *Deriver {
	d := &Deriver{
		brandTiers:   make([]brandTier, 0, len(policy.BrandTiers)),
		catchAll:     policy.CatchAllBrandTier,
		numericTiers: policy.NumericTiers,
	}
	for _, bt := range policy.BrandTiers {
		set := hashset.New()
		for _, b := range bt.Brands {
			set.Add(b)
		}
		d.brandTiers = append(d.brandTiers, brandTier{tier: bt.Tier, brands: set})
	}
	return d
}

// MissingFields returns the required fields absent from raw, in declared order. A null
// value counts as absent.
func MissingFields(raw models.RawSpec) []string {
	var missing []string
	for _, field := range models.RequiredFields {
		if v, ok := raw[field]; !ok || v == nil {
			missing = append(missing, field)
		}
	}
	return missing
}

func (d *Deriver) Derive(raw models.RawSpec) (*models.EnrichedFeatures, error) {
	if missing := MissingFields(raw); len(missing) > 0 {
		return nil, &errors.MissingFieldsError{Fields: missing}
	}

	brand, ok := raw[models.FieldBrand].(string)
	if !ok || strings.TrimSpace(brand) == "" {
		return nil, &errors.InvalidInputError{
			Field:    models.FieldBrand,
			ErrorMsg: fmt.Sprintf("Invalid value provided for field: %s", models.FieldBrand),
		}
	}

	f := models.NewEnrichedFeatures()
	f.Categorical[models.FieldBrand] = brand
	for _, field := range models.NumericFields {
		v, present := raw[field]
		if !present || v == nil {
			// only optional fields get here
			continue
		}
		value, err := utils.ToFloat64(v)
		if err != nil {
			return nil, &errors.InvalidInputError{Field: field}
		}
		f.Numeric[field] = value
	}

	ram := f.Numeric[models.FieldRAM]
	if ram <= 0 {
		return nil, &errors.InvalidInputError{
			Field:    models.FieldRAM,
			ErrorMsg: fmt.Sprintf("%s must be greater than zero", models.FieldRAM),
		}
	}

	f.Categorical[models.FieldBrandTier] = d.BrandTier(brand)
	for _, t := range d.numericTiers {
		value, ok := f.Numeric[t.Source]
		if !ok {
			continue
		}
		f.Categorical[t.Name] = Bucketize(t, value)
	}
	f.Numeric[models.FieldStoragePerRAM] = f.Numeric[models.FieldROM] / ram
	f.Numeric[models.FieldCameraTotal] = f.Numeric[models.FieldFrontCamera] + f.Numeric[models.FieldBackCamera]
	return f, nil
}

// BrandTier returns the first tier listing brand, or the catch-all tier.
func (d *Deriver) BrandTier(brand string) string {
	for _, bt := range d.brandTiers {
		if bt.brands.Contains(brand) {
			return bt.tier
		}
	}
	return d.catchAll
}

// Bucketize returns the label of the first bucket with value <= Max, else t.Else.
func Bucketize(t config.NumericTier, value float64) string {
	for _, b := range t.Buckets {
		if value <= b.Max {
			return b.Label
		}
	}
	return t.Else
}
