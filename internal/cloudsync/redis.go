package cloudsync

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/aditiintechk/CraveCount/internal/snapshot"
)

// RedisRemote stores each user's document as a JSON value and publishes a
// change notification on every write, so Subscribe can mirror the remote
// store's push semantics.
type RedisRemote struct {
	client *redis.Client
}

// NewRedisRemote connects to Redis and verifies the connection with a
// ping before returning.
func NewRedisRemote(addr, password string, db int) (*RedisRemote, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRemote{client: client}, nil
}

func userKey(userID string) string {
	return "cravecount:user:" + userID
}

func updatesChannel(userID string) string {
	return "cravecount:updates:" + userID
}

func (r *RedisRemote) Get(ctx context.Context, userID string) (snapshot.Document, error) {
	raw, err := r.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return snapshot.Document{}, ErrNoDocument
		}
		return snapshot.Document{}, fmt.Errorf("failed to fetch remote document: %w", err)
	}

	var doc snapshot.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return snapshot.Document{}, fmt.Errorf("failed to parse remote document: %w", err)
	}
	return doc, nil
}

func (r *RedisRemote) Set(ctx context.Context, userID string, doc snapshot.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize remote document: %w", err)
	}

	if err := r.client.Set(ctx, userKey(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write remote document: %w", err)
	}

	// Change notification is advisory; a missed publish only delays other
	// subscribers until their next load.
	if err := r.client.Publish(ctx, updatesChannel(userID), "updated").Err(); err != nil {
		log.Printf("cloudsync: publish failed for %s: %v", userID, err)
	}
	return nil
}

func (r *RedisRemote) Subscribe(ctx context.Context, userID string, fn func(snapshot.Document)) (func(), error) {
	pubsub := r.client.Subscribe(ctx, updatesChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	go func() {
		for range pubsub.Channel() {
			doc, err := r.Get(ctx, userID)
			if err != nil {
				log.Printf("cloudsync: fetch after update failed for %s: %v", userID, err)
				continue
			}
			fn(doc)
		}
	}()

	return func() { pubsub.Close() }, nil
}

func (r *RedisRemote) Close() error {
	return r.client.Close()
}
