package cache

import (
	"context"
	"time"
)

// NullCache backs --no-cache, backend "none", and a file cache whose
// directory cannot be created. Every lookup misses and every write is
// dropped, so each run regenerates its code and graphs from the workspace.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }
