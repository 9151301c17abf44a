package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"DropDock/internal/repo"
	"DropDock/model"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeleteByPattern deletes cache entries by pattern.
func (c *RedisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

type CacheManager struct {
	cache Cache
}

var globalCacheManager *CacheManager
var cacheManagerOnce sync.Once

// InitCacheManager initializes the cache manager.
func InitCacheManager() {
	cacheManagerOnce.Do(func() {
		globalCacheManager = &CacheManager{
			cache: NewRedisCache(repo.Redis),
		}
	})
}

// getCacheManager returns the cache manager, or nil when Redis is not up
// (unit tests run without a Redis instance).
func getCacheManager() *CacheManager {
	if repo.Redis == nil {
		return nil
	}
	if globalCacheManager == nil {
		InitCacheManager()
	}
	return globalCacheManager
}

// BuildCacheKey builds a cache key.
func BuildCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += fmt.Sprintf(":%v", param)
	}
	return key
}

const (
	CacheKeyItemList   = "workspace:item:list"
	CacheKeyMemberRole = "workspace:member:role"
)

type ItemListCache struct {
	Items []model.Item `json:"items"`
	Total int64        `json:"total"`
}

// GetItemListFromCache reads a cached workspace item listing.
func GetItemListFromCache(
	ctx context.Context,
	workspaceID uint64,
	itemType string,
	tag string,
	page int,
	pageSize int,
) (*ItemListCache, bool) {
	manager := getCacheManager()
	if manager == nil {
		return nil, false
	}
	key := BuildCacheKey(CacheKeyItemList, workspaceID, itemType, tag, page, pageSize)

	var result ItemListCache
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// SetItemListToCache writes a cached workspace item listing.
func SetItemListToCache(
	ctx context.Context,
	workspaceID uint64,
	itemType string,
	tag string,
	page int,
	pageSize int,
	data *ItemListCache,
	expiration time.Duration,
) error {
	manager := getCacheManager()
	if manager == nil {
		return nil
	}
	key := BuildCacheKey(CacheKeyItemList, workspaceID, itemType, tag, page, pageSize)
	return manager.cache.Set(ctx, key, data, expiration)
}

// InvalidateItemListCache clears every cached listing for a workspace.
func InvalidateItemListCache(ctx context.Context, workspaceID uint64) error {
	manager := getCacheManager()
	if manager == nil {
		return nil
	}
	pattern := BuildCacheKey(CacheKeyItemList, workspaceID) + ":*"
	if cache, ok := manager.cache.(*RedisCache); ok {
		return cache.DeleteByPattern(ctx, pattern)
	}
	return manager.cache.Delete(ctx, pattern)
}

// GetMemberRoleFromCache reads a cached membership role.
func GetMemberRoleFromCache(ctx context.Context, workspaceID, userID uint64) (string, bool) {
	manager := getCacheManager()
	if manager == nil {
		return "", false
	}
	key := BuildCacheKey(CacheKeyMemberRole, workspaceID, userID)
	var role string
	if err := manager.cache.Get(ctx, key, &role); err != nil {
		return "", false
	}
	return role, true
}

// SetMemberRoleToCache writes a cached membership role.
func SetMemberRoleToCache(ctx context.Context, workspaceID, userID uint64, role string, expiration time.Duration) error {
	manager := getCacheManager()
	if manager == nil {
		return nil
	}
	key := BuildCacheKey(CacheKeyMemberRole, workspaceID, userID)
	return manager.cache.Set(ctx, key, role, expiration)
}

// InvalidateMemberRoleCache clears a cached membership role.
func InvalidateMemberRoleCache(ctx context.Context, workspaceID, userID uint64) error {
	manager := getCacheManager()
	if manager == nil {
		return nil
	}
	return manager.cache.Delete(ctx, BuildCacheKey(CacheKeyMemberRole, workspaceID, userID))
}
