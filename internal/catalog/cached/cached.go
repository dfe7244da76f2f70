// Package cached puts a Redis read-through cache in front of a catalog
// source. Slow sources such as the SRD HTTP client are scanned once per
// TTL instead of on every index refresh. Invalidations are announced on a
// Redis channel so every process holding an index can drop its scans.
package cached

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	redisclient "github.com/KirkDiggler/creature-import/internal/redis"
)

const (
	keyRoot = "catalog:"

	defaultTTL = time.Hour
	scanBatch  = 100
)

// Config holds the dependencies of the cache
type Config struct {
	Source catalog.Source
	Client redisclient.Client
	TTL    time.Duration
	// Namespace separates the keys of different catalog sources sharing
	// one Redis, usually the configured source kind
	Namespace string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Source == nil {
		vb.RequiredField("Source")
	}
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.TTL < 0 {
		vb.InvalidField("TTL", "must not be negative")
	}
	if strings.ContainsAny(c.Namespace, ":*?[] ") {
		vb.InvalidField("Namespace", "must not contain separators or glob characters")
	}
	return vb.Build()
}

// Source is a catalog.Source that caches the wrapped source in Redis
type Source struct {
	inner  catalog.Source
	client redisclient.Client
	ttl    time.Duration
	prefix string
}

var _ catalog.Source = (*Source)(nil)

// New creates a caching source
func New(cfg *Config) (*Source, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	prefix := keyRoot
	if cfg.Namespace != "" {
		prefix += cfg.Namespace + ":"
	}

	return &Source{inner: cfg.Source, client: cfg.Client, ttl: ttl, prefix: prefix}, nil
}

func (s *Source) partitionsKey() string {
	return s.prefix + "partitions"
}

func (s *Source) partitionKey(id string) string {
	return s.prefix + "partition:" + id
}

func (s *Source) entryKey(uniqueID string) string {
	return s.prefix + "entry:" + uniqueID
}

func (s *Source) entryPattern(partitionID string) string {
	return s.prefix + "entry:" + partitionID + ":*"
}

func (s *Source) invalidationChannel() string {
	return s.prefix + "invalidated"
}

// ListPartitions returns the cached partition list or asks the source
func (s *Source) ListPartitions(ctx context.Context) ([]catalog.Partition, error) {
	var partitions []catalog.Partition
	if s.get(ctx, s.partitionsKey(), &partitions) {
		return partitions, nil
	}

	partitions, err := s.inner.ListPartitions(ctx)
	if err != nil {
		return nil, err
	}

	s.set(ctx, s.partitionsKey(), partitions)
	return partitions, nil
}

// ScanPartition caches the full index projection of a partition and
// applies the requested projection on the way out
func (s *Source) ScanPartition(ctx context.Context, partition catalog.Partition, projection catalog.Projection) ([]entities.IndexEntry, error) {
	key := s.partitionKey(partition.ID)

	var entries []entities.IndexEntry
	if !s.get(ctx, key, &entries) {
		scanned, err := s.inner.ScanPartition(ctx, partition, catalog.IndexProjection)
		if err != nil {
			// failures are never cached so the next scan retries
			return nil, err
		}
		entries = scanned
		s.set(ctx, key, entries)
	}

	out := make([]entities.IndexEntry, len(entries))
	for i, e := range entries {
		out[i] = catalog.Project(e, projection)
	}
	return out, nil
}

// FetchFullEntry caches individual entries
func (s *Source) FetchFullEntry(ctx context.Context, partition catalog.Partition, id string) (*entities.ReferenceLibraryEntry, error) {
	key := s.entryKey(entities.UniqueID(partition.ID, id))

	var entry entities.ReferenceLibraryEntry
	if s.get(ctx, key, &entry) {
		return &entry, nil
	}

	fetched, err := s.inner.FetchFullEntry(ctx, partition, id)
	if err != nil {
		return nil, err
	}

	s.set(ctx, key, fetched)
	return fetched, nil
}

// Invalidate drops the cached partition list together with the scans and
// entries of the given partitions, or of every partition when none are
// given, and announces the change to Watch subscribers.
func (s *Source) Invalidate(ctx context.Context, partitionIDs ...string) error {
	keys := []string{s.partitionsKey()}
	patterns := make([]string, 0, len(partitionIDs))
	for _, id := range partitionIDs {
		keys = append(keys, s.partitionKey(id))
		patterns = append(patterns, s.entryPattern(id))
	}
	if len(partitionIDs) == 0 {
		patterns = append(patterns, s.prefix+"partition:*", s.prefix+"entry:*")
	}

	for _, pattern := range patterns {
		iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return errors.Wrapf(err, "failed to list cached keys matching %s", pattern)
		}
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "failed to invalidate catalog cache")
	}

	notice, err := json.Marshal(partitionIDs)
	if err != nil {
		return errors.Wrap(err, "failed to encode invalidation notice")
	}
	if err := s.client.Publish(ctx, s.invalidationChannel(), notice).Err(); err != nil {
		return errors.Wrap(err, "failed to announce catalog invalidation")
	}

	slog.InfoContext(ctx, "catalog cache invalidated",
		"partitions", partitionIDs,
		"keys", len(keys))
	return nil
}

// Watch calls onInvalidate with the partition IDs of every invalidation
// announced for this namespace until ctx is done. An empty list means
// every partition.
func (s *Source) Watch(ctx context.Context, onInvalidate func(partitionIDs ...string)) error {
	sub := s.client.Subscribe(ctx, s.invalidationChannel())
	defer func() {
		_ = sub.Close() // nolint:errcheck // nothing to do on close failure
	}()

	// the subscription is live once Receive returns
	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrap(err, "failed to subscribe to catalog invalidations")
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var partitionIDs []string
			if err := json.Unmarshal([]byte(msg.Payload), &partitionIDs); err != nil {
				slog.WarnContext(ctx, "ignoring malformed invalidation notice",
					"payload", msg.Payload,
					"error", err)
				continue
			}
			slog.DebugContext(ctx, "catalog invalidation received", "partitions", partitionIDs)
			onInvalidate(partitionIDs...)
		}
	}
}

// get reports whether key held a decodable value. Cache errors are
// logged and treated as misses.
func (s *Source) get(ctx context.Context, key string, dest any) bool {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redisclient.Nil {
			slog.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		slog.WarnContext(ctx, "catalog cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Source) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "failed to encode catalog cache entry", "key", key, "error", err)
		return
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
	}
}
