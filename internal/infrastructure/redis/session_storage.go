// Package redis almacenamiento de sesiones del frontend web sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/climate-service/pkg/config"
)

var _ fiber.Storage = (*SessionStorage)(nil)

const (
	keyPrefix      = "climate:session:"
	opTimeout      = 3 * time.Second
	resetBatchSize = 100
)

// SessionStorage implementa fiber.Storage; las claves llevan un prefijo propio.
type SessionStorage struct {
	db *goredis.Client
}

// NewSessionStorage conecta y verifica con PING.
func NewSessionStorage(ctx context.Context, cfg config.RedisConfig) (*SessionStorage, error) {
	const op = "redis.NewSessionStorage"
	db := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &SessionStorage{db: db}, nil
}

func key(k string) string { return keyPrefix + k }

// Get devuelve nil, nil si la clave no existe.
func (s *SessionStorage) Get(k string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	val, err := s.db.Get(ctx, key(k)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis.Get: %w", err)
	}
	return val, nil
}

// Set guarda val con expiración exp (0 = sin expiración).
func (s *SessionStorage) Set(k string, val []byte, exp time.Duration) error {
	if k == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.db.Set(ctx, key(k), val, exp).Err()
}

// Delete elimina la clave.
func (s *SessionStorage) Delete(k string) error {
	if k == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.db.Del(ctx, key(k)).Err()
}

// Reset elimina todas las sesiones del prefijo (no hace FLUSHDB).
func (s *SessionStorage) Reset() error {
	ctx := context.Background()
	iter := s.db.Scan(ctx, 0, keyPrefix+"*", resetBatchSize).Iterator()
	batch := make([]string, 0, resetBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == resetBatchSize {
			if err := s.db.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.db.Del(ctx, batch...).Err()
	}
	return nil
}

// Close cierra el cliente.
func (s *SessionStorage) Close() error {
	return s.db.Close()
}
