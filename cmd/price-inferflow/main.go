package main

import (
	"context"
	"fmt"

	_ "go.uber.org/automaxprocs"

	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/artifacts"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/config"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/pricing"
	"github.com/Meesho/BharatMLStack/price-inferflow/internal/server"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/configs"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/etcd"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/inmemorycache"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/logger"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/metrics"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/middleware"
)

const predictionCacheName = "predictions"

var AppConfigs configs.AppConfigs

func main() {
	configs.InitConfig(&AppConfigs)
	logger.InitLogger(&AppConfigs)
	metrics.InitMetrics(&AppConfigs)
	middleware.InitMiddleware("x-request-id", "user-agent")

	policy, err := config.LoadPolicy(AppConfigs.Configs.PricingPolicy, AppConfigs.Configs.PricingPolicyFile)
	if err != nil {
		logger.Panic("Failed to load pricing policy", err)
	}

	bundle, err := artifacts.Load(context.Background(), artifactSource())
	if err != nil {
		logger.Panic("Failed to load model artifacts", err)
	}

	opts := pricing.Options{CacheTTLSec: AppConfigs.Configs.PredictionCacheTTLSec}
	if AppConfigs.Configs.PredictionCacheEnabled {
		cache, err := inmemorycache.NewV1InMemoryCache(inmemorycache.Conf{
			CacheName:           predictionCacheName,
			InMemorySizeInBytes: AppConfigs.Configs.PredictionCacheSizeInBytes,
		})
		if err != nil {
			logger.Panic("Failed to create prediction cache", err)
		}
		opts.Cache = cache
	}

	service, err := pricing.NewService(policy, bundle, opts)
	if err != nil {
		logger.Panic("Artifacts do not match the pricing policy", err)
	}
	logger.Info(fmt.Sprintf("Serving policy %s with %d feature columns", policy.Name, len(bundle.Schema)))
	server.InitServer(service, &AppConfigs)
}

func artifactSource() artifacts.Source {
	switch AppConfigs.Configs.ArtifactSource {
	case configs.ArtifactSourceFile:
		return artifacts.NewFileSource(AppConfigs.Configs.ArtifactDir)
	case configs.ArtifactSourceEtcd:
		etcd.Init(etcd.DefaultVersion, &AppConfigs)
		return artifacts.NewEtcdSource(etcd.Instance())
	default:
		logger.Panic(fmt.Sprintf("unknown artifact source %q", AppConfigs.Configs.ArtifactSource), nil)
		return nil
	}
}
