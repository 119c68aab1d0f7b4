package cache

import (
	"context"
	"fmt"
	"sort"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"
)

// DefaultConnectTimeout bounds the initial ping to the server.
const DefaultConnectTimeout = 5 * time.Second

type ValkeyConfig struct {
	Address        string
	Password       string
	DB             int
	ConnectTimeout time.Duration
}

// ValkeyStorage shares snapshots between dashboard processes through a
// Valkey (or Redis) server. Entries are stored without expiry.
type ValkeyStorage struct {
	inner valkeylib.Client
}

func NewValkeyStorage(cfg ValkeyConfig) (*ValkeyStorage, error) {
	opts := valkeylib.ClientOption{
		InitAddress: []string{cfg.Address},
		SelectDB:    cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	inner, err := valkeylib.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := inner.Do(ctx, inner.B().Ping().Build()).Error(); err != nil {
		inner.Close()
		return nil, fmt.Errorf("failed to ping valkey (timeout: %v): %w", timeout, err)
	}

	return &ValkeyStorage{inner: inner}, nil
}

func (v *ValkeyStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := v.inner.Do(ctx, v.inner.B().Get().Key(key).Build()).ToString()
	if valkeylib.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (v *ValkeyStorage) Set(ctx context.Context, key, value string) error {
	return v.inner.Do(ctx, v.inner.B().Set().Key(key).Value(value).Build()).Error()
}

func (v *ValkeyStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	var cursor uint64
	for {
		entry, err := v.inner.Do(ctx, v.inner.B().Scan().Cursor(cursor).Match(prefix+"*").Count(100).Build()).AsScanEntry()
		if err != nil {
			return keys, err
		}
		keys = append(keys, entry.Elements...)
		cursor = entry.Cursor
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (v *ValkeyStorage) Clear(ctx context.Context, prefix string) error {
	keys, err := v.Keys(ctx, prefix)
	if err != nil || len(keys) == 0 {
		return err
	}
	return v.inner.Do(ctx, v.inner.B().Del().Key(keys...).Build()).Error()
}

func (v *ValkeyStorage) Close() error {
	if v.inner != nil {
		v.inner.Close()
	}
	return nil
}
