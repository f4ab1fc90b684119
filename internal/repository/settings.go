package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Santiagodiaz04/chatbot-api/internal/log"

	"github.com/redis/go-redis/v9"
)

const settingsKeyPrefix = "chatbot:config:"

// Setting reads one admin-editable text. A missing key yields "".
func (r *PostgresRepository) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM chatbot_config WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// SettingsSource is the authoritative store behind CachedSettings.
type SettingsSource interface {
	Setting(ctx context.Context, key string) (string, error)
}

// CachedSettings serves settings from Redis and falls back to the source on
// a miss. Without a Redis client every read goes to the source.
type CachedSettings struct {
	source SettingsSource
	client *redis.Client
	ttl    time.Duration
}

// NewCachedSettings creates a settings reader. client may be nil.
func NewCachedSettings(source SettingsSource, client *redis.Client, ttl time.Duration) *CachedSettings {
	return &CachedSettings{source: source, client: client, ttl: ttl}
}

// Get returns the value of key. Redis errors are logged and bypassed.
func (s *CachedSettings) Get(ctx context.Context, key string) (string, error) {
	if s.client != nil {
		val, err := s.client.Get(ctx, settingsKeyPrefix+key).Result()
		if err == nil {
			return val, nil
		}
		if !errors.Is(err, redis.Nil) {
			log.WithRequestID(ctx).WithError(err).WithField("key", key).Warn("settings cache read failed")
		}
	}

	val, err := s.source.Setting(ctx, key)
	if err != nil {
		return "", err
	}

	if s.client != nil {
		if err := s.client.Set(ctx, settingsKeyPrefix+key, val, s.ttl).Err(); err != nil {
			log.WithRequestID(ctx).WithError(err).WithField("key", key).Warn("settings cache write failed")
		}
	}
	return val, nil
}

// NewRedisClient connects to Redis and checks it with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
