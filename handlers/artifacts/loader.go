package artifacts

import (
	"context"
	"fmt"
	"time"

	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/config"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/inference"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/models"
	"github.com/Meesho/BharatMLStack/price-inferflow/internal/errors"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/logger"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/metrics"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"
)

const (
	artifactLoadLatency = "price_inferflow.artifact.load.latency"
	artifactLoadFailure = "price_inferflow.artifact.load.failure"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Bundle is the decoded training output: the shared column layout and one model and
// scaler per segment. It is read-only once loaded.
type Bundle struct {
	Schema  models.FeatureSchema
	Models  map[models.Segment]inference.Model
	Scalers map[models.Segment]inference.Scaler
}

// Load fetches and decodes the three artifacts concurrently. It fails on the first
// artifact that cannot be fetched or decoded.
func Load(ctx context.Context, source Source) (*Bundle, error) {
	var (
		modelSpecs  map[string]ModelSpec
		scalerSpecs map[string]ScalerSpec
		columns     []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return fetchInto(gctx, source, SegmentedModels, &modelSpecs) })
	g.Go(func() error { return fetchInto(gctx, source, SegmentedScalers, &scalerSpecs) })
	g.Go(func() error { return fetchInto(gctx, source, FeatureColumns, &columns) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bundle := &Bundle{
		Schema:  models.FeatureSchema(columns),
		Models:  make(map[models.Segment]inference.Model, len(modelSpecs)),
		Scalers: make(map[models.Segment]inference.Scaler, len(scalerSpecs)),
	}
	for segment, spec := range modelSpecs {
		model, err := buildModel(spec)
		if err != nil {
			return nil, &errors.ArtifactError{Artifact: SegmentedModels, ErrorMsg: fmt.Sprintf("segment %s: %v", segment, err)}
		}
		bundle.Models[models.Segment(segment)] = model
	}
	for segment, spec := range scalerSpecs {
		bundle.Scalers[models.Segment(segment)] = buildScaler(spec)
	}
	logger.Info(fmt.Sprintf("Loaded %d models, %d scalers and %d feature columns from %s source",
		len(bundle.Models), len(bundle.Scalers), len(bundle.Schema), source.Type()))
	return bundle, nil
}

func fetchInto(ctx context.Context, source Source, artifact string, out interface{}) error {
	start := time.Now()
	tags := []string{metrics.Tag(metrics.TagArtifact, artifact), metrics.Tag(metrics.TagSourceType, source.Type())}
	data, err := source.Fetch(ctx, artifact)
	if err != nil {
		metrics.Incr(artifactLoadFailure, tags)
		return &errors.ArtifactError{Artifact: artifact, ErrorMsg: fmt.Sprintf("fetch failed: %v", err)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		metrics.Incr(artifactLoadFailure, tags)
		return &errors.ArtifactError{Artifact: artifact, ErrorMsg: fmt.Sprintf("decode failed: %v", err)}
	}
	metrics.Timing(artifactLoadLatency, time.Since(start), tags)
	return nil
}

func buildModel(spec ModelSpec) (inference.Model, error) {
	switch spec.Type {
	case inference.ModelTypeLinear, "":
		return &inference.LinearModel{Coefficients: spec.Coefficients, Intercept: spec.Intercept}, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", spec.Type)
	}
}

func buildScaler(spec ScalerSpec) inference.Scaler {
	withMean, withStd := true, true
	if spec.WithMean != nil {
		withMean = *spec.WithMean
	}
	if spec.WithStd != nil {
		withStd = *spec.WithStd
	}
	return &inference.StandardScaler{Mean: spec.Mean, Scale: spec.Scale, WithMean: withMean, WithStd: withStd}
}

// Validate checks the bundle against the policy it will serve: a non-empty schema of
// unique columns, and a model and scaler of schema width for every policy segment.
func (b *Bundle) Validate(policy *config.Policy) error {
	if len(b.Schema) == 0 {
		return &errors.ArtifactError{Artifact: FeatureColumns, ErrorMsg: "feature schema is empty"}
	}
	seen := make(map[string]bool, len(b.Schema))
	for _, column := range b.Schema {
		if column == "" {
			return &errors.ArtifactError{Artifact: FeatureColumns, ErrorMsg: "feature schema has an empty column name"}
		}
		if seen[column] {
			return &errors.ArtifactError{Artifact: FeatureColumns, ErrorMsg: fmt.Sprintf("duplicate column %q", column)}
		}
		seen[column] = true
	}

	width := len(b.Schema)
	for _, name := range policy.Segments {
		segment := models.Segment(name)
		model, ok := b.Models[segment]
		if !ok {
			return &errors.ArtifactError{Artifact: SegmentedModels, ErrorMsg: fmt.Sprintf("no model for segment %s", segment)}
		}
		if model.Dim() != width {
			return &errors.ArtifactError{
				Artifact: SegmentedModels,
				ErrorMsg: fmt.Sprintf("segment %s model has %d coefficients, schema has %d columns", segment, model.Dim(), width),
			}
		}
		scaler, ok := b.Scalers[segment]
		if !ok {
			return &errors.ArtifactError{Artifact: SegmentedScalers, ErrorMsg: fmt.Sprintf("no scaler for segment %s", segment)}
		}
		if s, isStandard := scaler.(*inference.StandardScaler); isStandard && len(s.Scale) != len(s.Mean) {
			return &errors.ArtifactError{
				Artifact: SegmentedScalers,
				ErrorMsg: fmt.Sprintf("segment %s scaler has %d means and %d scales", segment, len(s.Mean), len(s.Scale)),
			}
		}
		if scaler.Dim() != width {
			return &errors.ArtifactError{
				Artifact: SegmentedScalers,
				ErrorMsg: fmt.Sprintf("segment %s scaler has %d columns, schema has %d", segment, scaler.Dim(), width),
			}
		}
	}
	for segment := range b.Models {
		if !policy.HasSegment(string(segment)) {
			logger.Warn(fmt.Sprintf("Model for segment %s is not routed to by policy %s", segment, policy.Name))
		}
	}
	return nil
}

// Dispatcher pairs each policy segment's scaler and model.
func (b *Bundle) Dispatcher(policy *config.Policy) *inference.Dispatcher {
	pairs := make(map[models.Segment]inference.Pair, len(policy.Segments))
	for _, name := range policy.Segments {
		segment := models.Segment(name)
		pairs[segment] = inference.Pair{Scaler: b.Scalers[segment], Model: b.Models[segment]}
	}
	return inference.NewDispatcher(pairs)
}
