// Package redisstore persists the workspace as a Redis list of JSON documents.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const DefaultKey = "cogniflow:workspace:items"

type WorkspaceRepository struct {
	client *redis.Client
	key    string
}

var _ contract.WorkspaceRepository = &WorkspaceRepository{}

// NewWorkspaceRepository connects to redisURL and checks the connection.
func NewWorkspaceRepository(redisURL, key string) (*WorkspaceRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewWorkspaceRepositoryWithClient(client, key), nil
}

func NewWorkspaceRepositoryWithClient(client *redis.Client, key string) *WorkspaceRepository {
	if key == "" {
		key = DefaultKey
	}
	return &WorkspaceRepository{
		client: client,
		key:    key,
	}
}

func (r *WorkspaceRepository) FetchAll(ctx context.Context) ([]*entity.Item, error) {
	docs, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch workspace: %w", err)
	}
	items := make([]*entity.Item, 0, len(docs))
	for i, doc := range docs {
		var it entity.Item
		if err := json.Unmarshal([]byte(doc), &it); err != nil {
			return nil, fmt.Errorf("decode item %d: %w", i, err)
		}
		items = append(items, &it)
	}
	return items, nil
}

// ReplaceAll swaps the list atomically with MULTI/EXEC.
func (r *WorkspaceRepository) ReplaceAll(ctx context.Context, items []*entity.Item) error {
	docs := make([]interface{}, len(items))
	for i, it := range items {
		b, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode item %s: %w", it.Id, err)
		}
		docs[i] = string(b)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(docs) > 0 {
			pipe.RPush(ctx, r.key, docs...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *WorkspaceRepository) Close() error {
	return r.client.Close()
}
