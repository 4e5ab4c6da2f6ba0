// Package etcdtest provides an in-memory clientv3.KV for tests.
package etcdtest

import (
	"context"
	"sort"
	"strings"

	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// KV answers point and prefix Get requests from a map. Every other KV method panics.
type KV struct {
	clientv3.KV
	Data map[string]string
	Err  error
}

func NewKV(data map[string]string) *KV {
	return &KV{Data: data}
}

func (k *KV) Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error) {
	if k.Err != nil {
		return nil, k.Err
	}
	op := clientv3.OpGet(key, opts...)
	prefix := len(op.RangeBytes()) > 0

	keys := make([]string, 0, len(k.Data))
	for stored := range k.Data {
		if stored == key || (prefix && strings.HasPrefix(stored, key)) {
			keys = append(keys, stored)
		}
	}
	sort.Strings(keys)

	resp := &clientv3.GetResponse{}
	for _, stored := range keys {
		resp.Kvs = append(resp.Kvs, &mvccpb.KeyValue{Key: []byte(stored), Value: []byte(k.Data[stored])})
	}
	resp.Count = int64(len(resp.Kvs))
	return resp, nil
}
