package logger

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/configs"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var applicationName string = ""

const (
	logTemplate string = "%s %v [, ] [] %s price-inferflow %s\n"
	timeFormat  string = "02-01-2006 15:04:05.000 -0700"
)

func InitLogger(configs *configs.AppConfigs) {
	applicationName = configs.Configs.ApplicationName
	SetLevel(configs.Configs.ApplicationLogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	Info("Logger initialized!")
}

// SetLevel sets the global zerolog level, panicking on an unknown level name.
func SetLevel(level string) {
	logLevel := strings.ToUpper(level)
	switch logLevel {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "INFO":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "FATAL":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "PANIC":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "DISABLED":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		Panic(fmt.Sprintf("Incorrect log level %s", logLevel), nil)
	}
}

func Debug(message string) {
	log.Debug().Msgf(logTemplate, applicationName, now(), "DEBUG", message)
}

func Info(message string) {
	log.Info().Msgf(logTemplate, applicationName, now(), "INFO", message)
}

func Warn(message string) {
	log.Warn().Msgf(logTemplate, applicationName, now(), "WARN", message)
}

func Error(message string, err error) {
	log.Error().AnErr("Error ", err).Msgf(logTemplate, applicationName, now(), "ERROR", message)
}

// PercentError logs roughly loggingPercent of calls. Calls sharing a key are either all
// logged or all dropped; an empty key samples at random.
func PercentError(message string, err error, key string, loggingPercent int) {
	if sampled(key, loggingPercent) {
		log.Error().AnErr("Error ", err).Str("key", key).Msgf(logTemplate, applicationName, now(), "ERROR", message)
	}
}

func sampled(key string, loggingPercent int) bool {
	if loggingPercent == 0 {
		loggingPercent = 10
	}
	if key == "" {
		return rand.Intn(100)+1 <= loggingPercent
	}
	return utils.IsEnabledForKey(key, loggingPercent)
}

func Panic(message string, err error) {
	Error(message, err)
	log.Panic().AnErr("Error", err).Msgf(logTemplate, applicationName, now(), "PANIC", message)
}

func now() string {
	return time.Now().Format(timeFormat)
}
