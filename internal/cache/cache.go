// Package cache memoizes engine results in Redis, keyed by the term set and the
// document snapshot they were computed from.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/relevance"
)

const (
	// DefaultKeyPrefix namespaces memo keys.
	DefaultKeyPrefix = "trendboard:memo"
	// DefaultTTL bounds how long an entry survives without a reload.
	DefaultTTL = 30 * time.Minute
)

// Memo stores JSON-encoded results in Redis.
type Memo struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger infralogger.Logger
}

// NewMemo creates a Redis-backed memo.
func NewMemo(client redis.UniversalClient, prefix string, ttl time.Duration, log infralogger.Logger) *Memo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Memo{client: client, prefix: prefix, ttl: ttl, logger: log}
}

// Get decodes the entry for key into dst. It reports false on a miss.
func (m *Memo) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := m.client.Get(ctx, m.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get memo entry: %w", err)
	}

	if err = json.Unmarshal(raw, dst); err != nil {
		m.logger.Warn("Discarding undecodable memo entry",
			infralogger.String("redis_key", m.key(key)),
			infralogger.Error(err),
		)
		return false, nil
	}
	return true, nil
}

// Set stores v under key with the memo TTL.
func (m *Memo) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode memo entry: %w", err)
	}
	if err = m.client.Set(ctx, m.key(key), raw, m.ttl).Err(); err != nil {
		return fmt.Errorf("set memo entry: %w", err)
	}
	return nil
}

func (m *Memo) key(k string) string {
	return m.prefix + ":" + k
}

// Key builds a memo key for an operation. Terms are normalized, de-duplicated
// and sorted so equivalent term sets share an entry; the snapshot fingerprint
// ties the entry to one document collection.
func Key(operation, snapshot string, terms []string, params ...string) string {
	normalized := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		n := relevance.Normalize(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}
	sort.Strings(normalized)

	h := sha256.New()
	h.Write([]byte(snapshot))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(normalized, "\x1f")))
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return operation + ":" + hex.EncodeToString(h.Sum(nil))
}
