package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mcadesk/internal/models"

	"github.com/redis/go-redis/v9"
)

const pipelineTTL = time.Minute

// cacheDealScript writes the deal only when its version is not older than
// the floor left by the last committed mutation.
var cacheDealScript = redis.NewScript(`
local floor = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) < floor then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// invalidateDealScript raises the version floor and drops the deal and the
// pipeline summary.
var invalidateDealScript = redis.NewScript(`
local floor = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) > floor then
	redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[2])
end
redis.call('DEL', KEYS[1], KEYS[3])
return 1
`)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes the cached value into dest. A miss returns false and no error.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

func (s *CacheService) pipelineKey() string {
	return s.GenerateKey("dashboard", "pipeline", "all")
}

func (s *CacheService) dealKey(id uint) string {
	return s.GenerateKey("deal", "id", id)
}

func (s *CacheService) dealFloorKey(id uint) string {
	return s.GenerateKey("deal", "floor", id)
}

// Deal caching
func (s *CacheService) GetDeal(ctx context.Context, id uint) (*models.Deal, bool, error) {
	var deal models.Deal
	found, err := s.Get(ctx, s.dealKey(id), &deal)
	if err != nil || !found {
		return nil, false, err
	}
	return &deal, true, nil
}

// CacheDeal stores deal unless a mutation newer than deal.Version has been
// committed since it was read.
func (s *CacheService) CacheDeal(ctx context.Context, deal *models.Deal) error {
	if deal == nil {
		return errors.New("cannot cache nil deal")
	}
	data, err := json.Marshal(deal)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	keys := []string{s.dealKey(deal.ID), s.dealFloorKey(deal.ID)}
	return cacheDealScript.Run(ctx, s.client, keys, deal.Version, data, s.ttl.Milliseconds()).Err()
}

// InvalidateDeal drops the deal and the pipeline summary it contributes to,
// and refuses later writes of any version below version.
func (s *CacheService) InvalidateDeal(ctx context.Context, id uint, version int) error {
	keys := []string{s.dealKey(id), s.dealFloorKey(id), s.pipelineKey()}
	return invalidateDealScript.Run(ctx, s.client, keys, version, s.ttl.Milliseconds()).Err()
}

// Pipeline caching
func (s *CacheService) GetPipeline(ctx context.Context) (*models.PipelineSummary, bool, error) {
	var summary models.PipelineSummary
	found, err := s.Get(ctx, s.pipelineKey(), &summary)
	if err != nil || !found {
		return nil, false, err
	}
	return &summary, true, nil
}

func (s *CacheService) CachePipeline(ctx context.Context, summary *models.PipelineSummary) error {
	return s.SetWithTTL(ctx, s.pipelineKey(), summary, pipelineTTL)
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
