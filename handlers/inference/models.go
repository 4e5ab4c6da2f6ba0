package inference

import (
	"fmt"
)

// ModelTypeLinear is the only regressor family the training pipeline exports.
const ModelTypeLinear = "linear"

// Model maps a scaled feature vector to a log-space price.
type Model interface {
	Predict(x []float64) (float64, error)
	Dim() int
}

// Scaler standardizes a raw feature vector with training-time statistics.
type Scaler interface {
	Transform(x []float64) ([]float64, error)
	Dim() int
}

type LinearModel struct {
	Coefficients []float64
	Intercept    float64
}

func (m *LinearModel) Dim() int {
	return len(m.Coefficients)
}

func (m *LinearModel) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Coefficients) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(m.Coefficients), len(x))
	}
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * x[i]
	}
	return y, nil
}

// StandardScaler applies (x - mean) / scale per column. A zero scale leaves the
// centred value unscaled.
type StandardScaler struct {
	Mean     []float64
	Scale    []float64
	WithMean bool
	WithStd  bool
}

func (s *StandardScaler) Dim() int {
	return len(s.Mean)
}

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) || len(x) != len(s.Scale) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		if s.WithMean {
			v -= s.Mean[i]
		}
		if s.WithStd && s.Scale[i] != 0 {
			v /= s.Scale[i]
		}
		out[i] = v
	}
	return out, nil
}
