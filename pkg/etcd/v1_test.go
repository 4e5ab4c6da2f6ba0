package etcd

import (
	"context"
	"errors"
	"testing"

	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/etcd/etcdtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValue(t *testing.T) {
	v := NewV1WithKV(etcdtest.NewKV(map[string]string{
		"/config/price-inferflow/artifacts/feature-columns": `["a"]`,
	}), "price-inferflow")

	value, err := v.GetValue(context.Background(), "/artifacts/feature-columns")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(value))

	_, err = v.GetValue(context.Background(), "/artifacts/segmented-models")
	assert.Error(t, err)
}

func TestGetChildren(t *testing.T) {
	v := NewV1WithKV(etcdtest.NewKV(map[string]string{
		"/config/price-inferflow/artifacts/feature-columns": `["a"]`,
		"/config/price-inferflow/artifacts/empty":           "",
		"/config/price-inferflow/policy":                    "{}",
		"/config/other-app/artifacts/feature-columns":       `["b"]`,
	}), "price-inferflow")

	children, err := v.GetChildren(context.Background(), "/artifacts")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"/artifacts/feature-columns": []byte(`["a"]`)}, children)
	assert.Equal(t, "/config/price-inferflow", v.GetBasePath())
	assert.NoError(t, v.Close())
}

func TestGetChildrenError(t *testing.T) {
	kv := etcdtest.NewKV(nil)
	kv.Err = errors.New("connection refused")

	_, err := NewV1WithKV(kv, "price-inferflow").GetChildren(context.Background(), "/artifacts")
	assert.EqualError(t, err, "connection refused")
}
