package configs

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	var appConfigs AppConfigs
	InitConfig(&appConfigs)

	assert.Equal(t, defaultAppName, appConfigs.Configs.ApplicationName)
	assert.Equal(t, defaultAppPort, appConfigs.Configs.ApplicationPort)
	assert.Equal(t, DefaultPolicy, appConfigs.Configs.PricingPolicy)
	assert.Equal(t, ArtifactSourceFile, appConfigs.Configs.ArtifactSource)
	assert.Equal(t, defaultArtifactDir, appConfigs.Configs.ArtifactDir)
	assert.False(t, appConfigs.Configs.PredictionCacheEnabled)
}

func TestInitConfigFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PRICING_POLICY", "multi_signal")
	t.Setenv("ARTIFACT_SOURCE", "etcd")
	t.Setenv("ETCD_SERVER", "localhost:2379")
	t.Setenv("PREDICTION_CACHE_ENABLED", "true")

	var appConfigs AppConfigs
	InitConfig(&appConfigs)

	assert.Equal(t, 9090, appConfigs.Configs.ApplicationPort)
	assert.Equal(t, "multi_signal", appConfigs.Configs.PricingPolicy)
	assert.Equal(t, ArtifactSourceEtcd, appConfigs.Configs.ArtifactSource)
	assert.Equal(t, "localhost:2379", appConfigs.Configs.ETCD_SERVER)
	assert.True(t, appConfigs.Configs.PredictionCacheEnabled)
}
