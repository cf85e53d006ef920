package rewards

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
}

func NewCacheService() (serv *CacheService, err error) {

	// config
	addr := os.Getenv("REWARDS_CACHE_URL")
	if addr == "" {
		return nil, fmt.Errorf("env REWARDS_CACHE_URL is not set")
	}
	user := os.Getenv("REWARDS_CACHE_USER")
	pwd := os.Getenv("REWARDS_CACHE_PWD")

	// redis
	db := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    pwd,
		Username:    user,
		DB:          0,
		MaxRetries:  5,
		DialTimeout: 10 * time.Second,
	})
	err = db.Ping(context.Background()).Err()
	if err != nil {
		return nil, err
	}

	return &CacheService{db}, nil
}

func (c *CacheService) GetBalance(ctx context.Context, dependent uuid.UUID) (balance int64, err error) {
	val, err := c.client.Get(ctx, "balance:"+dependent.String()).Result()
	if err == redis.Nil {
		return 0, fmt.Errorf("not found")
	} else if err != nil {
		return 0, err
	}

	balance, err = strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (c *CacheService) SetBalance(ctx context.Context, dependent uuid.UUID, balance int64) (err error) {
	err = c.client.Set(ctx, "balance:"+dependent.String(), balance, 5*time.Minute).Err()
	if err != nil {
		return err
	}
	return nil
}

func (c *CacheService) InvalidateBalance(ctx context.Context, dependent uuid.UUID) error {
	err := c.client.Del(ctx, "balance:"+dependent.String()).Err()
	if err != nil {
		return err
	}
	return nil
}
