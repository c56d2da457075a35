package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
)

const (
	defaultKeyPrefix = "crmadmin:"
	tokenKeySuffix   = "session:token"
	userKeySuffix    = "session:user"
)

// RedisStore keeps the session in redis for headless deployments where the
// console runs on a shared host. The two keys are written and deleted in a
// single transaction so concurrent readers never see a torn session.
type RedisStore struct {
	client *goredis.Client
	prefix string
}

func NewRedisStore(client *goredis.Client, keyPrefix string) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) Load(ctx context.Context) (model.Session, bool, error) {
	values, err := s.client.MGet(ctx, s.tokenKey(), s.userKey()).Result()
	if err != nil {
		return model.Session{}, false, fmt.Errorf("load redis session: %w", err)
	}
	if len(values) != 2 || values[0] == nil || values[1] == nil {
		return model.Session{}, false, nil
	}

	token, ok := values[0].(string)
	if !ok {
		return model.Session{}, false, nil
	}
	userRaw, ok := values[1].(string)
	if !ok {
		return model.Session{}, false, nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		return model.Session{}, false, nil
	}

	session := model.Session{Token: strings.TrimSpace(token), User: user}
	if session.IsZero() {
		return model.Session{}, false, nil
	}
	return session, true, nil
}

func (s *RedisStore) Save(ctx context.Context, session model.Session) error {
	if session.IsZero() {
		return fmt.Errorf("refusing to save incomplete session")
	}

	userRaw, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("marshal user profile: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(), session.Token, 0)
	pipe.Set(ctx, s.userKey(), userRaw, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save redis session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.tokenKey(), s.userKey()).Err(); err != nil {
		return fmt.Errorf("clear redis session: %w", err)
	}
	return nil
}

func (s *RedisStore) tokenKey() string {
	return s.prefix + tokenKeySuffix
}

func (s *RedisStore) userKey() string {
	return s.prefix + userKeySuffix
}
