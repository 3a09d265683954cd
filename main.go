package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

func main() {
	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "prospectedge: %v\n", err)
		os.Exit(1)
	}

	ctx := setupLogging(config.Debug)
	logger := *zerolog.Ctx(ctx)

	// connect to MySQL
	db, err := sqlx.Connect("mysql", config.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MySQL")
	}
	defer db.Close()

	_, err = db.Exec("SET NAMES utf8mb4 COLLATE utf8mb4_general_ci")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to switch MySQL to UTF8")
	}

	var repo Repository = newSqlxRepository(db, logger)

	// connect to redis, if configured
	if config.RedisAddr != "" {
		redisPool := newRedisPool(config.RedisAddr)
		defer redisPool.Close()
		repo = newCachedRepository(repo, redisPool, config.CacheTTL, logger)
	} else {
		logger.Info().Msg("no PE_REDIS_ADDR, query cache disabled")
	}

	awssess, err := setupAWS(config)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to AWS")
	}
	var s3svc s3iface.S3API
	if config.CSPBucket != "" {
		s3svc = s3.New(awssess)
	}

	store, err := setupSessionsStore(config, awssess)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to setup sessions store")
	}
	deps := newDependencies(repo, store, s3svc, config, logger)

	startHTTPServer(ctx, deps)
}
