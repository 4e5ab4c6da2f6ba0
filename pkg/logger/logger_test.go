package logger

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"Warn", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"DISABLED", zerolog.Disabled},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			SetLevel(tt.level)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestSetLevelPanicsOnUnknownLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })
	assert.Panics(t, func() { SetLevel("VERBOSE") })
}

func TestSampledIsStablePerKey(t *testing.T) {
	key := "4b7c2a10-8f3e-4d6a-9c1b-2e5f7a9d0c34"
	first := sampled(key, 50)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, sampled(key, 50))
	}
	assert.True(t, sampled(key, 100))
	assert.False(t, sampled(key, -1))
	assert.True(t, sampled("", 100))
}

func TestSampledDefaultsToTenPercent(t *testing.T) {
	hits := 0
	for i := 0; i < 1000; i++ {
		if sampled(fmt.Sprintf("request-%d", i), 0) {
			hits++
		}
	}
	assert.Greater(t, hits, 50)
	assert.Less(t, hits, 150)
}
