package main

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/rs/zerolog"
)

// cachedRepository keeps company and income statement reads in redis for a
// short while. Everything else goes straight to the wrapped Repository.
type cachedRepository struct {
	Repository
	redisPool *redis.Pool
	ttl       time.Duration
	log       zerolog.Logger
}

func newCachedRepository(repo Repository, redisPool *redis.Pool, ttl time.Duration, log zerolog.Logger) Repository {
	if redisPool == nil || ttl <= 0 {
		return repo
	}
	return &cachedRepository{
		Repository: repo,
		redisPool:  redisPool,
		ttl:        ttl,
		log:        log.With().Str("repo", "redis").Logger(),
	}
}

func newRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// symbolSetKey builds a redis key that is the same for any ordering of the
// same symbols
func symbolSetKey(kind string, symbols []string) string {
	set := slices.Clone(symbols)
	slices.Sort(set)
	set = slices.Compact(set)
	return "prospectedge/" + kind + "/" + strings.Join(set, ",")
}

func cachedRead[T any](ctx context.Context, c *cachedRepository, kind string, symbols []string, load func() ([]T, error)) ([]T, error) {
	redisKey := symbolSetKey(kind, symbols)
	sublog := c.log.With().Str("redis_key", redisKey).Logger()

	redisConn, err := c.redisPool.GetContext(ctx)
	if err != nil {
		sublog.Error().Err(err).Msg("failed to get redis connection")
		cacheResults.WithLabelValues("error").Inc()
		return load()
	}
	defer redisConn.Close()

	cached, err := redis.Bytes(redisConn.Do("GET", redisKey))
	if err == nil {
		var rows []T
		if err = json.Unmarshal(cached, &rows); err == nil {
			sublog.Debug().Msg("redis cache hit")
			cacheResults.WithLabelValues("hit").Inc()
			return rows, nil
		}
		sublog.Warn().Err(err).Msg("failed to decode cached value")
	} else if !errors.Is(err, redis.ErrNil) {
		sublog.Error().Err(err).Msg("failed to read from redis")
	}
	cacheResults.WithLabelValues("miss").Inc()

	rows, err := load()
	if err != nil {
		return rows, err
	}

	encoded, err := json.Marshal(rows)
	if err != nil {
		sublog.Error().Err(err).Msg("failed to encode value for redis")
		return rows, nil
	}
	_, err = redisConn.Do("SET", redisKey, encoded, "EX", max(1, int(c.ttl.Seconds())))
	if err != nil {
		sublog.Error().Err(err).Msg("failed to save to redis")
	}
	return rows, nil
}

func (c *cachedRepository) GetCompaniesBySymbols(ctx context.Context, symbols []string) ([]Company, error) {
	if len(symbols) == 0 {
		return c.Repository.GetCompaniesBySymbols(ctx, symbols)
	}
	return cachedRead(ctx, c, "companies", symbols, func() ([]Company, error) {
		return c.Repository.GetCompaniesBySymbols(ctx, symbols)
	})
}

func (c *cachedRepository) GetLatestPeriodRecords(ctx context.Context, symbols []string) ([]IncomeStatement, error) {
	if len(symbols) == 0 {
		return c.Repository.GetLatestPeriodRecords(ctx, symbols)
	}
	return cachedRead(ctx, c, "income_statements", symbols, func() ([]IncomeStatement, error) {
		return c.Repository.GetLatestPeriodRecords(ctx, symbols)
	})
}
