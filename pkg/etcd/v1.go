package etcd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/configs"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/logger"
	clientv3 "go.etcd.io/etcd/client/v3"
)

type V1 struct {
	conn     *clientv3.Client
	kv       clientv3.KV
	basePath string
}

func newV1Etcd(configs *configs.AppConfigs) Etcd {
	if configs.Configs.ApplicationName == "" || configs.Configs.ETCD_SERVER == "" {
		logger.Panic("APP_NAME or ETCD_SERVER is not set", nil)
	}
	timeout := defaultConnectionTimeout
	if configs.Configs.ETCD_DIAL_TIMEOUT_SEC > 0 {
		timeout = time.Duration(configs.Configs.ETCD_DIAL_TIMEOUT_SEC) * time.Second
	}
	servers := strings.Split(configs.Configs.ETCD_SERVER, ",")

	conn, err := clientv3.New(clientv3.Config{
		Endpoints:           servers,
		Username:            configs.Configs.ETCD_USERNAME,
		Password:            configs.Configs.ETCD_PASSWORD,
		DialTimeout:         timeout,
		DialKeepAliveTime:   timeout,
		PermitWithoutStream: true,
	})
	if err != nil {
		logger.Panic("failed to create etcd client", err)
	}
	logger.Info(fmt.Sprintf("Etcd client connected to %s", configs.Configs.ETCD_SERVER))
	return &V1{
		conn:     conn,
		kv:       conn.KV,
		basePath: BasePath(configs.Configs.ApplicationName),
	}
}

// NewV1WithKV builds a client over an existing KV, without owning a connection.
func NewV1WithKV(kv clientv3.KV, appName string) *V1 {
	return &V1{kv: kv, basePath: BasePath(appName)}
}

// BasePath is the root under which an application's keys live.
func BasePath(appName string) string {
	return basePath + appName
}

func (v *V1) GetBasePath() string {
	return v.basePath
}

// GetValue returns the value stored at path, which is relative to the base path.
func (v *V1) GetValue(ctx context.Context, path string) ([]byte, error) {
	key := v.basePath + path
	resp, err := v.kv.Get(ctx, key)
	if err != nil {
		logger.Error(fmt.Sprintf("Error getting key %s from etcd", key), err)
		return nil, err
	}
	if len(resp.Kvs) == 0 {
		return nil, fmt.Errorf("etcd key %s not found", key)
	}
	return resp.Kvs[0].Value, nil
}

// GetChildren returns every non-empty value under path keyed by its path relative to
// the base path.
func (v *V1) GetChildren(ctx context.Context, path string) (map[string][]byte, error) {
	prefix := v.basePath + path
	resp, err := v.kv.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		logger.Error(fmt.Sprintf("Error getting config from etcd path %s ", prefix), err)
		return nil, err
	}
	children := make(map[string][]byte, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		if len(kv.Value) == 0 {
			continue
		}
		children[strings.TrimPrefix(string(kv.Key), v.basePath)] = kv.Value
	}
	return children, nil
}

func (v *V1) Close() error {
	if v.conn == nil {
		return nil
	}
	return v.conn.Close()
}
