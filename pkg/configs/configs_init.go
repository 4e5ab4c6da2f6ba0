package configs

import (
	"log"

	"github.com/spf13/viper"
)

const (
	DefaultPolicy         = "two_level"
	ArtifactSourceFile    = "file"
	ArtifactSourceEtcd    = "etcd"
	defaultArtifactDir    = "./models"
	defaultAppPort        = 8080
	defaultLogLevel       = "INFO"
	defaultAppName        = "price-inferflow"
	defaultEtcdTimeoutSec = 30
)

func InitConfig(appConfigs *AppConfigs) {
	viper.AutomaticEnv()

	staticConfig := appConfigs.GetStaticConfig()
	cfg, ok := staticConfig.(*Configs)
	if !ok {
		log.Fatal("Failed to cast static config to *Configs")
	}

	setDefaults()

	// Manually bind environment variables to mapstructure keys
	bindEnvVars()

	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("Failed to unmarshal config from environment: %v", err)
	}

	log.Println("Configuration loaded from environment variables")
}

func setDefaults() {
	viper.SetDefault("app_env", "local")
	viper.SetDefault("app_log_level", defaultLogLevel)
	viper.SetDefault("app_name", defaultAppName)
	viper.SetDefault("app_port", defaultAppPort)
	viper.SetDefault("metrics_sampling_rate", "1")
	viper.SetDefault("telegraf_host", "localhost")
	viper.SetDefault("telegraf_port", "8125")
	viper.SetDefault("pricing_policy", DefaultPolicy)
	viper.SetDefault("artifact_source", ArtifactSourceFile)
	viper.SetDefault("artifact_dir", defaultArtifactDir)
	viper.SetDefault("etcd_dialTimeoutSec", defaultEtcdTimeoutSec)
	viper.SetDefault("predictionCache_sizeInBytes", 16*1024*1024)
	viper.SetDefault("predictionCache_ttlSec", 0)
	viper.SetDefault("cors_allowedOrigins", "*")
	viper.SetDefault("error_loggingPercent", 10)
}

func bindEnvVars() {
	// Application config
	viper.BindEnv("app_env", "APP_ENV")
	viper.BindEnv("app_log_level", "APP_LOG_LEVEL")
	viper.BindEnv("app_name", "APP_NAME")
	viper.BindEnv("app_port", "APP_PORT")

	// Metrics / Telegraf config
	viper.BindEnv("metrics_sampling_rate", "METRIC_SAMPLING_RATE")
	viper.BindEnv("telegraf_host", "TELEGRAF_HOST")
	viper.BindEnv("telegraf_port", "TELEGRAF_PORT")

	// Pricing policy config
	viper.BindEnv("pricing_policy", "PRICING_POLICY")
	viper.BindEnv("pricing_policyFile", "PRICING_POLICY_FILE")

	// Artifact config
	viper.BindEnv("artifact_source", "ARTIFACT_SOURCE")
	viper.BindEnv("artifact_dir", "ARTIFACT_DIR")

	// ETCD config
	viper.BindEnv("etcd_server", "ETCD_SERVER")
	viper.BindEnv("etcd_username", "ETCD_USERNAME")
	viper.BindEnv("etcd_password", "ETCD_PASSWORD")
	viper.BindEnv("etcd_dialTimeoutSec", "ETCD_DIAL_TIMEOUT_SEC")

	// Prediction cache config
	viper.BindEnv("predictionCache_enabled", "PREDICTION_CACHE_ENABLED")
	viper.BindEnv("predictionCache_sizeInBytes", "PREDICTION_CACHE_SIZE_IN_BYTES")
	viper.BindEnv("predictionCache_ttlSec", "PREDICTION_CACHE_TTL_SEC")

	viper.BindEnv("cors_allowedOrigins", "CORS_ALLOWED_ORIGINS")
	viper.BindEnv("error_loggingPercent", "ERROR_LOGGING_PERCENT")
}
