package etcd

import (
	"context"
	"sync"
	"time"
)

const (
	basePath                 = "/config/"
	defaultConnectionTimeout = 30 * time.Second
)

var (
	once sync.Once
)

// Etcd is the read side of the coordination store used to fetch deployment artifacts.
type Etcd interface {
	GetBasePath() string
	GetValue(ctx context.Context, path string) ([]byte, error)
	GetChildren(ctx context.Context, path string) (map[string][]byte, error)
	Close() error
}
