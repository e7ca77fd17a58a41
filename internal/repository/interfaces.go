package repository

import (
	"context"
	"encoding/json"
)

// KeyValueStore is a string-keyed JSON blob store. Operations never fail
// loudly: errors are reported through the default value or the success flag.
type KeyValueStore interface {
	Get(ctx context.Context, key string, def json.RawMessage) json.RawMessage
	Set(ctx context.Context, key string, value any) bool
	Remove(ctx context.Context, key string) bool
	Clear(ctx context.Context) bool
	Keys(ctx context.Context) []string
}
