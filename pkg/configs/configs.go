package configs

type Configs struct {
	ApplicationEnv      string `mapstructure:"app_env"`
	ApplicationLogLevel string `mapstructure:"app_log_level"`
	ApplicationName     string `mapstructure:"app_name"`
	ApplicationPort     int    `mapstructure:"app_port"`

	//telegraf-config
	MetricsSamplingRate string `mapstructure:"metrics_sampling_rate"`
	Telegraf_Host       string `mapstructure:"telegraf_host"`
	Telegraf_Port       string `mapstructure:"telegraf_port"`

	//pricing-policy-config
	PricingPolicy     string `mapstructure:"pricing_policy"`
	PricingPolicyFile string `mapstructure:"pricing_policyFile"`

	//artifact-config
	ArtifactSource string `mapstructure:"artifact_source"`
	ArtifactDir    string `mapstructure:"artifact_dir"`

	ETCD_SERVER           string `mapstructure:"etcd_server"`
	ETCD_USERNAME         string `mapstructure:"etcd_username"`
	ETCD_PASSWORD         string `mapstructure:"etcd_password"`
	ETCD_DIAL_TIMEOUT_SEC int    `mapstructure:"etcd_dialTimeoutSec"`

	//prediction-cache-config
	PredictionCacheEnabled     bool `mapstructure:"predictionCache_enabled"`
	PredictionCacheSizeInBytes int  `mapstructure:"predictionCache_sizeInBytes"`
	PredictionCacheTTLSec      int  `mapstructure:"predictionCache_ttlSec"`

	CorsAllowedOrigins  string `mapstructure:"cors_allowedOrigins"`
	ErrorLoggingPercent int    `mapstructure:"error_loggingPercent"`
}

type DynamicConfigs struct {
}

type AppConfigs struct {
	Configs        Configs
	DynamicConfigs DynamicConfigs
}

func (a *AppConfigs) GetStaticConfig() interface{} {
	return &a.Configs
}

func (a *AppConfigs) GetDynamicConfig() interface{} {
	return &a.DynamicConfigs
}
