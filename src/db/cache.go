package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Endpoint-config documents are read on every dispatched event, so they sit
// in front of the KV store in a ristretto cache. Keys are tracked in a
// separate set so the whole config cache can be dropped at once.
var (
	Cache             *ristretto.Cache
	EndpointCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000, // number of keys to track frequency of
		MaxCost:     1000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

func GetEndpointCache(cacheKey string) (interface{}, bool) {
	if Cache == nil {
		return nil, false
	}
	return Cache.Get(cacheKey)
}

func SetEndpointCache(cacheKey string, value interface{}) {
	if Cache == nil {
		return
	}
	EndpointCacheKeys.Lock()
	EndpointCacheKeys.m[cacheKey] = struct{}{}
	EndpointCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
	Cache.Wait()
}

func DelEndpointCache(cacheKey string) {
	if Cache == nil {
		return
	}
	EndpointCacheKeys.Lock()
	delete(EndpointCacheKeys.m, cacheKey)
	EndpointCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllEndpointCaches() {
	if Cache == nil {
		return
	}
	EndpointCacheKeys.Lock()
	for key := range EndpointCacheKeys.m {
		Cache.Del(key)
	}
	EndpointCacheKeys.m = make(map[string]struct{})
	EndpointCacheKeys.Unlock()
}
