package artifacts

// ModelSpec is one entry of segmented_models.json.
type ModelSpec struct {
	Type         string    `json:"type"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// ScalerSpec is one entry of segmented_scalers.json. Missing flags default to true.
type ScalerSpec struct {
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
	WithMean *bool     `json:"with_mean,omitempty"`
	WithStd  *bool     `json:"with_std,omitempty"`
}
