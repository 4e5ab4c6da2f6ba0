package vector

import (
	"fmt"
	"sort"

	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/models"
	"github.com/Meesho/BharatMLStack/price-inferflow/internal/errors"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/utils"
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

const oneHotSeparator = "_"

// OneHotColumn is the training-time column name for a categorical value.
func OneHotColumn(field, value string) string {
	return field + oneHotSeparator + value
}

// Encode flattens f into column -> value: one column per numeric field and a 1 for
// <field>_<value> per categorical field. Columns are inserted in sorted field order.
func Encode(f *models.EnrichedFeatures) (*linkedhashmap.Map, error) {
	encoded := linkedhashmap.New()

	numeric := make([]string, 0, len(f.Numeric))
	for field := range f.Numeric {
		numeric = append(numeric, field)
	}
	sort.Strings(numeric)
	for _, field := range numeric {
		value := f.Numeric[field]
		if !utils.IsFinite(value) {
			return nil, &errors.AlignmentError{
				Column:   field,
				ErrorMsg: fmt.Sprintf("non-finite value %v for column %s", value, field),
			}
		}
		encoded.Put(field, value)
	}

	categorical := make([]string, 0, len(f.Categorical))
	for field := range f.Categorical {
		categorical = append(categorical, field)
	}
	sort.Strings(categorical)
	for _, field := range categorical {
		value := f.Categorical[field]
		if value == "" {
			return nil, &errors.AlignmentError{
				Column:   field,
				ErrorMsg: fmt.Sprintf("empty category for field %s", field),
			}
		}
		encoded.Put(OneHotColumn(field, value), 1.0)
	}
	return encoded, nil
}

// Align lays f out in schema order. Schema columns f does not produce are 0 and
// encoded columns outside the schema are dropped, so len(result) == len(schema).
func Align(f *models.EnrichedFeatures, schema models.FeatureSchema) (models.Vector, error) {
	encoded, err := Encode(f)
	if err != nil {
		return nil, err
	}
	return Reconcile(encoded, schema), nil
}

// Reconcile reads schema columns out of an encoded record, zero-filling absent ones.
func Reconcile(encoded *linkedhashmap.Map, schema models.FeatureSchema) models.Vector {
	v := make(models.Vector, len(schema))
	for i, column := range schema {
		if value, ok := encoded.Get(column); ok {
			v[i] = value.(float64)
		}
	}
	return v
}
