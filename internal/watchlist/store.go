package watchlist

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Store is the persistence contract for subscriber watchlists. Records are
// whole-list reads and writes; there is no partial update, so concurrent
// writers race and the last one wins.
type Store interface {
	ListSubscribers(ctx context.Context) ([]int64, error)
	GetEntries(ctx context.Context, chatID int64) ([]TrackedAsset, error)
	PutEntries(ctx context.Context, chatID int64, entries []TrackedAsset) error
}

const (
	keyPrefix = "watchlist:"
	opTimeout = 5 * time.Second
	scanCount = 100
)

// RedisStore keeps one key per subscriber holding a JSON array of
// TrackedAsset.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "could not connect to redis at %s", addr)
	}

	return &RedisStore{client: client}, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func subscriberKey(chatID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, chatID)
}

// ListSubscribers scans all watchlist keys. Cost is linear in the number
// of subscribers, which is fine at this bot's scale.
func (s *RedisStore) ListSubscribers(ctx context.Context) ([]int64, error) {
	var (
		subscribers []int64
		cursor      uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", scanCount).Result()
		if err != nil {
			return nil, errors.Wrap(err, "could not scan subscriber keys")
		}
		for _, key := range keys {
			id, err := strconv.ParseInt(strings.TrimPrefix(key, keyPrefix), 10, 64)
			if err != nil {
				log.Warnf("skipping malformed subscriber key %q: %v", key, err)
				continue
			}
			subscribers = append(subscribers, id)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return subscribers, nil
}

// decodeEntries parses and normalizes one stored watchlist record.
func decodeEntries(raw []byte, now time.Time) ([]TrackedAsset, error) {
	var entries []TrackedAsset
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(err, "could not decode watchlist record")
	}
	return Normalize(entries, now), nil
}

// GetEntries loads a subscriber's watchlist. An absent record is an empty
// list. A record that no longer parses is logged and treated as empty for
// this read; the subscriber can rebuild it through commands, and the
// scheduler keeps running either way.
func (s *RedisStore) GetEntries(ctx context.Context, chatID int64) ([]TrackedAsset, error) {
	raw, err := s.client.Get(ctx, subscriberKey(chatID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not read watchlist for subscriber %d", chatID)
	}

	entries, err := decodeEntries([]byte(raw), time.Now())
	if err != nil {
		log.Errorf("malformed watchlist record for subscriber %d, treating as empty: %v", chatID, err)
		return nil, nil
	}
	return entries, nil
}

// PutEntries replaces a subscriber's watchlist. An empty list deletes the
// record so ListSubscribers stops returning the subscriber.
func (s *RedisStore) PutEntries(ctx context.Context, chatID int64, entries []TrackedAsset) error {
	key := subscriberKey(chatID)

	if len(entries) == 0 {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return errors.Wrapf(err, "could not delete watchlist for subscriber %d", chatID)
		}
		return nil
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrapf(err, "could not encode watchlist for subscriber %d", chatID)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return errors.Wrapf(err, "could not write watchlist for subscriber %d", chatID)
	}
	return nil
}
