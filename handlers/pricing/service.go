package pricing

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/artifacts"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/config"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/features"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/inference"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/models"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/segment"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/vector"
	"github.com/Meesho/BharatMLStack/price-inferflow/internal/errors"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/inmemorycache"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/metrics"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/utils"
)

const (
	predictLatency    = "price_inferflow.predict.latency"
	predictTotal      = "price_inferflow.predict.total"
	predictError      = "price_inferflow.predict.error"
	predictCacheHit   = "price_inferflow.predict.cache.hit"
	predictCacheMiss  = "price_inferflow.predict.cache.miss"
	predictCacheError = "price_inferflow.predict.cache.error"

	statusSuccess = "success"
	statusFailure = "failure"
)

// Options are the optional parts of a Service.
type Options struct {
	Cache       inmemorycache.InMemoryCache
	CacheTTLSec int
}

// Service runs derive, route, align and predict against one policy and one artifact
// bundle. Every field is set in NewService and only read afterwards, so a Service can
// serve concurrent requests without locking.
type Service struct {
	policy      *config.Policy
	deriver     *features.Deriver
	router      *segment.Router
	schema      models.FeatureSchema
	dispatcher  *inference.Dispatcher
	cache       inmemorycache.InMemoryCache
	cacheTTLSec int
}

// Info describes the active configuration for operators.
type Info struct {
	Policy        string   `json:"policy"`
	Segments      []string `json:"segments"`
	TierFields    []string `json:"tier_fields"`
	SchemaColumns int      `json:"schema_columns"`
	CacheEnabled  bool     `json:"cache_enabled"`
}

// NewService validates bundle against policy and builds the request pipeline.
func NewService(policy *config.Policy, bundle *artifacts.Bundle, opts Options) (*Service, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if err := bundle.Validate(policy); err != nil {
		return nil, err
	}
	schema := make(models.FeatureSchema, len(bundle.Schema))
	copy(schema, bundle.Schema)
	return &Service{
		policy:      policy,
		deriver:     features.NewDeriver(policy),
		router:      segment.NewRouter(policy),
		schema:      schema,
		dispatcher:  bundle.Dispatcher(policy),
		cache:       opts.Cache,
		cacheTTLSec: opts.CacheTTLSec,
	}, nil
}

func (s *Service) Info() Info {
	return Info{
		Policy:        s.router.Policy(),
		Segments:      append([]string(nil), s.policy.Segments...),
		TierFields:    s.policy.TierFields(),
		SchemaColumns: len(s.schema),
		CacheEnabled:  s.cache != nil,
	}
}

func (s *Service) Predict(raw models.RawSpec) (*models.Prediction, error) {
	start := time.Now()
	prediction, err := s.predict(raw)

	tags := []string{metrics.Tag(metrics.TagPolicy, s.policy.Name)}
	if err != nil {
		tags = append(tags, metrics.Tag(metrics.TagStatus, statusFailure))
		metrics.Incr(predictError, append(tags, metrics.Tag(metrics.TagErrorType, errors.Type(err))))
	} else {
		tags = append(tags,
			metrics.Tag(metrics.TagStatus, statusSuccess),
			metrics.Tag(metrics.TagSegment, string(prediction.Segment)),
		)
	}
	metrics.Incr(predictTotal, tags)
	metrics.Timing(predictLatency, time.Since(start), tags)
	return prediction, err
}

func (s *Service) predict(raw models.RawSpec) (*models.Prediction, error) {
	f, err := s.deriver.Derive(raw)
	if err != nil {
		return nil, err
	}
	seg := s.router.Route(f)
	if seg == "" {
		return nil, &errors.UnknownSegmentError{Segment: string(seg)}
	}
	v, err := vector.Align(f, s.schema)
	if err != nil {
		return nil, err
	}

	var key []byte
	if s.cache != nil {
		key = utils.HashFloats(string(seg), v)
		if price, ok := s.cachedPrice(seg, key); ok {
			return &models.Prediction{Price: price, Segment: seg}, nil
		}
	}

	price, err := s.dispatcher.Predict(seg, v)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.storePrice(seg, key, price)
	}
	return &models.Prediction{Price: price, Segment: seg}, nil
}

func (s *Service) cachedPrice(seg models.Segment, key []byte) (float64, bool) {
	tags := []string{metrics.Tag(metrics.TagSegment, string(seg))}
	value, err := s.cache.Get(key)
	if err != nil || len(value) != 8 {
		metrics.Incr(predictCacheMiss, tags)
		return 0, false
	}
	metrics.Incr(predictCacheHit, tags)
	return math.Float64frombits(binary.LittleEndian.Uint64(value)), true
}

func (s *Service) storePrice(seg models.Segment, key []byte, price float64) {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint64(value, math.Float64bits(price))
	var err error
	if s.cacheTTLSec > 0 {
		err = s.cache.SetEx(key, value, s.cacheTTLSec)
	} else {
		err = s.cache.Set(key, value)
	}
	if err != nil {
		metrics.Incr(predictCacheError, []string{metrics.Tag(metrics.TagSegment, string(seg))})
	}
}
