// Package session хранит идентификаторы выданных refresh-токенов в Redis.
// Каждый токен можно обменять на новую пару ровно один раз.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/lms-platform/internal/config"
)

const keyPrefix = "refresh:"

// ErrNotFound — токен не выдавался, истёк или уже был использован.
var ErrNotFound = errors.New("refresh session not found")

// Store — хранилище refresh-сессий.
type Store struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Store, error) {
	const op = "session.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db}, nil
}

// Save запоминает refresh-токен jti пользователя userID на ttl.
func (s *Store) Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error {
	const op = "session.Save"
	if err := s.Db.Set(ctx, keyPrefix+jti, strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Consume атомарно удаляет сессию jti и возвращает её владельца.
func (s *Store) Consume(ctx context.Context, jti string) (int64, error) {
	const op = "session.Consume"
	val, err := s.Db.GetDel(ctx, keyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: corrupted session: %w", op, err)
	}
	return userID, nil
}

// Close закрывает соединение с Redis.
func (s *Store) Close() error {
	return s.Db.Close()
}
