package inference

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/models"
	"github.com/Meesho/BharatMLStack/price-inferflow/internal/errors"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/utils"
)

// Pair is the scaler and model trained together for one segment.
type Pair struct {
	Scaler Scaler
	Model  Model
}

// Dispatcher holds one Pair per segment. It is immutable after construction.
type Dispatcher struct {
	pairs map[models.Segment]Pair
}

func NewDispatcher(pairs map[models.Segment]Pair) *Dispatcher {
	copied := make(map[models.Segment]Pair, len(pairs))
	for segment, pair := range pairs {
		copied[segment] = pair
	}
	return &Dispatcher{pairs: copied}
}

func (d *Dispatcher) Has(segment models.Segment) bool {
	_, ok := d.pairs[segment]
	return ok
}

// Predict scales v with the segment's scaler, runs the segment's model and returns
// the price exp(prediction) rounded to 2 decimals.
func (d *Dispatcher) Predict(segment models.Segment, v models.Vector) (float64, error) {
	pair, ok := d.pairs[segment]
	if !ok || pair.Scaler == nil || pair.Model == nil {
		return 0, &errors.UnknownSegmentError{Segment: string(segment)}
	}
	scaled, err := pair.Scaler.Transform(v)
	if err != nil {
		return 0, &errors.PredictionError{ErrorMsg: fmt.Sprintf("segment %s: %v", segment, err)}
	}
	logPrice, err := pair.Model.Predict(scaled)
	if err != nil {
		return 0, &errors.PredictionError{ErrorMsg: fmt.Sprintf("segment %s: %v", segment, err)}
	}
	price := math.Exp(logPrice)
	if !utils.IsFinite(price) {
		return 0, &errors.PredictionError{
			ErrorMsg: fmt.Sprintf("segment %s: non-finite price for log prediction %v", segment, logPrice),
		}
	}
	return Round2(price), nil
}

// Round2 rounds the exact binary value of x to 2 decimal places, ties to even. 2.675
// is stored just below the tie and becomes 2.67.
func Round2(x float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return rounded
}
