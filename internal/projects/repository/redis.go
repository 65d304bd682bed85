package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

const (
	redisKeyPrefix  = "dashboard:" // dashboard:{app_id}:{uid}:projects / :events
	redisMaxRetries = 5            // optimistic WATCH retries before giving up
)

// RedisBackend keeps each identity's projects in one hash (field = project id,
// value = JSON document) and announces changes on a pub/sub channel.
type RedisBackend struct {
	client *redis.Client
	appID  string
}

func NewRedisBackend(client *redis.Client, appID string) *RedisBackend {
	return &RedisBackend{client: client, appID: appID}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) ForUser(uid string) Store {
	scope := redisKeyPrefix + b.appID + ":" + uid
	return &redisStore{
		client:  b.client,
		hashKey: scope + ":projects",
		channel: scope + ":events",
	}
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

type redisStore struct {
	client  *redis.Client
	hashKey string
	channel string
}

// Subscribe confirms the channel subscription before the initial read so no
// change published in between is lost.
func (s *redisStore) Subscribe(ctx context.Context) (*Subscription, error) {
	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	return startSubscription(ctx, func(e *emitter) {
		defer pubsub.Close()

		projects, err := s.load(e.ctx)
		if err != nil {
			e.fail(err)
			return
		}
		if !e.emit(projects) {
			return
		}

		msgs := pubsub.Channel()
		for {
			select {
			case <-e.ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					e.fail(errors.New("redis subscription closed"))
					return
				}
				projects, err := s.load(e.ctx)
				if err != nil {
					e.fail(err)
					return
				}
				if !e.emit(projects) {
					return
				}
			}
		}
	}), nil
}

func (s *redisStore) Create(ctx context.Context, draft domain.Project) (Ack, error) {
	id := uuid.NewString()
	data, err := encodeDoc(draft)
	if err != nil {
		return Ack{}, err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.hashKey, id, data)
		pipe.Publish(ctx, s.channel, id)
		return nil
	})
	if err != nil {
		return Ack{}, fmt.Errorf("redis create: %w", err)
	}
	return Ack{ID: id}, nil
}

func (s *redisStore) Replace(ctx context.Context, id string, p domain.Project) (Ack, error) {
	data, err := encodeDoc(p)
	if err != nil {
		return Ack{}, err
	}

	err = s.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, s.hashKey, id).Result()
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("replace %s: %w", id, domain.ErrNotFound)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.hashKey, id, data)
			pipe.Publish(ctx, s.channel, id)
			return nil
		})
		return err
	})
	if err != nil {
		return Ack{}, wrapRedis("replace", err)
	}
	return Ack{ID: id}, nil
}

func (s *redisStore) Remove(ctx context.Context, id string) (Ack, error) {
	err := s.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, s.hashKey, id).Result()
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("remove %s: %w", id, domain.ErrNotFound)
		}
		n, err := tx.HLen(ctx, s.hashKey).Result()
		if err != nil {
			return err
		}
		if n <= 1 {
			return domain.ErrLastProject
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, s.hashKey, id)
			pipe.Publish(ctx, s.channel, id)
			return nil
		})
		return err
	})
	if err != nil {
		return Ack{}, wrapRedis("remove", err)
	}
	return Ack{ID: id}, nil
}

// watch runs fn under WATCH on the identity's hash and retries when another
// writer touched the hash between the checks and EXEC.
func (s *redisStore) watch(ctx context.Context, fn func(tx *redis.Tx) error) error {
	var err error
	for i := 0; i < redisMaxRetries; i++ {
		err = s.client.Watch(ctx, fn, s.hashKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

func (s *redisStore) load(ctx context.Context) ([]domain.Project, error) {
	fields, err := s.client.HGetAll(ctx, s.hashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load: %w", err)
	}
	projects := make([]domain.Project, 0, len(fields))
	for id, raw := range fields {
		var p domain.Project
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", id, err)
		}
		p.ID = id
		projects = append(projects, p)
	}
	return sortByID(projects), nil
}

// encodeDoc serializes the document body. The id lives in the hash field.
func encodeDoc(p domain.Project) ([]byte, error) {
	doc := p.Normalize()
	doc.ID = ""
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}
	return data, nil
}

func wrapRedis(op string, err error) error {
	if isDomainErr(err) {
		return err
	}
	return fmt.Errorf("redis %s: %w", op, err)
}
