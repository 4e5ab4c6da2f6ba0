package models

// Request field names, literal as sent by clients and as used by the training pipeline.
const (
	FieldBrand       = "Brand"
	FieldScreenSize  = "Screen Size (in)"
	FieldFrontCamera = "Front Camera (MP)"
	FieldBackCamera  = "Back Camera (MP)"
	FieldBattery     = "Battery (mAh)"
	FieldRAM         = "RAM (GB)"
	FieldROM         = "ROM (GB)"
	FieldClockSpeed  = "Clock Speed (GHz)"
)

// Derived feature names.
const (
	FieldBrandTier     = "brand_tier"
	FieldStoragePerRAM = "storage_per_ram"
	FieldCameraTotal   = "camera_total"
)

// RequiredFields are checked for presence, in this order, before derivation.
var RequiredFields = []string{
	FieldBrand,
	FieldScreenSize,
	FieldFrontCamera,
	FieldBackCamera,
	FieldBattery,
	FieldRAM,
	FieldROM,
}

// NumericFields are the raw numeric inputs passed through to the feature vector.
var NumericFields = []string{
	FieldScreenSize,
	FieldFrontCamera,
	FieldBackCamera,
	FieldBattery,
	FieldRAM,
	FieldROM,
	FieldClockSpeed,
}

// RawSpec is a decoded request body keyed by field name.
type RawSpec map[string]interface{}

type Segment string

// EnrichedFeatures is the derived record the router and the aligner read.
type EnrichedFeatures struct {
	Categorical map[string]string
	Numeric     map[string]float64
}

func NewEnrichedFeatures() *EnrichedFeatures {
	return &EnrichedFeatures{
		Categorical: make(map[string]string),
		Numeric:     make(map[string]float64),
	}
}

func (e *EnrichedFeatures) Label(field string) (string, bool) {
	v, ok := e.Categorical[field]
	return v, ok
}

func (e *EnrichedFeatures) Value(field string) (float64, bool) {
	v, ok := e.Numeric[field]
	return v, ok
}

// FeatureSchema is the ordered column layout every segment model was trained on.
type FeatureSchema []string

type Vector []float64

type Prediction struct {
	Price   float64 `json:"price"`
	Segment Segment `json:"segment"`
}
