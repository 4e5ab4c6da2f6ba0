package inmemorycache

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/metrics"
	"github.com/coocood/freecache"
	"github.com/rs/zerolog/log"
)

const (
	metricUpdateInterval = 1 * time.Minute
	infiniteExpiry       = -1
)

type V1 struct {
	cacheName  string
	inMemCache *freecache.Cache
	done       chan struct{}
	closeOnce  sync.Once
}

type Conf struct {
	CacheName           string // mandatory
	InMemorySizeInBytes int    // mandatory
	GCPercentage        int    // optional
}

// NewV1InMemoryCache creates a freecache backed cache from conf and starts publishing
// its metrics every metricUpdateInterval until Close is called.
func NewV1InMemoryCache(conf Conf) (*V1, error) {
	if len(conf.CacheName) == 0 {
		return nil, fmt.Errorf("cache name is empty, conf - %#v", conf)
	}
	if conf.InMemorySizeInBytes <= 0 {
		return nil, fmt.Errorf("invalid in memory cache size, conf - %#v", conf)
	}
	if conf.GCPercentage > 0 {
		log.Warn().Msgf("GC percentage is set to %d, conf - %#v", conf.GCPercentage, conf)
		debug.SetGCPercent(conf.GCPercentage)
	}
	cache := &V1{
		cacheName:  conf.CacheName,
		inMemCache: freecache.NewCache(conf.InMemorySizeInBytes),
		done:       make(chan struct{}),
	}
	go cache.publishMetric()
	return cache, nil
}

func (imc *V1) Get(key []byte) ([]byte, error) {
	return imc.inMemCache.Get(key)
}

func (imc *V1) Set(key, value []byte) error {
	return imc.inMemCache.Set(key, value, infiniteExpiry)
}

func (imc *V1) SetEx(key, value []byte, expiryInSec int) error {
	return imc.inMemCache.Set(key, value, expiryInSec)
}

func (imc *V1) Delete(key []byte) bool {
	return imc.inMemCache.Del(key)
}

// Close stops the metric publisher. The cache stays usable.
func (imc *V1) Close() {
	imc.closeOnce.Do(func() { close(imc.done) })
}

// publishMetric publishes the in-memory-cache metrics every 1 min, configured by metricUpdateInterval
func (imc *V1) publishMetric() {
	ticker := time.NewTicker(metricUpdateInterval)
	cacheMetricTags := []string{metrics.Tag(metrics.TagCacheName, imc.cacheName)}
	defer ticker.Stop()
	for {
		select {
		case <-imc.done:
			return
		case <-ticker.C:
			metrics.Gauge(HitRate, imc.inMemCache.HitRate(), cacheMetricTags)
			metrics.Gauge(ItemCount, float64(imc.inMemCache.EntryCount()), cacheMetricTags)
			metrics.Gauge(EvacuateCount, float64(imc.inMemCache.EvacuateCount()), cacheMetricTags)
			metrics.Gauge(ExpiryCount, float64(imc.inMemCache.ExpiredCount()), cacheMetricTags)
		}
	}
}
