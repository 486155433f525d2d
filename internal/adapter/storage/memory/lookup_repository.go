package memory

import (
	"fmt"
	"time"

	"address-inspector/internal/config"
	domainRepo "address-inspector/internal/domain/repository"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// lookupKeyPrefix namespaces lookup sessions in the cache.
const lookupKeyPrefix = "lookup_"

// LookupRepository implements domainRepo.LookupRepository using the go-cache in-memory library.
type LookupRepository[T any] struct {
	cache  *cache.Cache
	logger *zap.Logger
	ttl    time.Duration
}

// NewLookupRepository creates a new in-memory lookup session store.
// onEvict, when non-nil, is called for sessions removed by expiry or Delete.
func NewLookupRepository[T any](cfg config.SessionConfig, logger *zap.Logger, onEvict func(id string, session T)) *LookupRepository[T] {
	defaultExpiration := cfg.GetTTL()
	if defaultExpiration <= 0 {
		defaultExpiration = cache.NoExpiration
	}
	cleanupInterval := cfg.GetCleanupInterval()

	c := cache.New(defaultExpiration, cleanupInterval)
	logger.Info(
		"Initialized go-cache for lookup sessions",
		zap.Duration("defaultExpiration", defaultExpiration),
		zap.Duration("cleanupInterval", cleanupInterval),
	)

	r := &LookupRepository[T]{
		cache:  c,
		logger: logger.Named("LookupSessionStorage"),
		ttl:    defaultExpiration,
	}

	if onEvict != nil {
		c.OnEvicted(func(key string, value any) {
			session, ok := value.(T)
			if !ok {
				return
			}
			r.logger.Debug("Lookup session evicted", zap.String("key", key))
			onEvict(key[len(lookupKeyPrefix):], session)
		})
	}

	return r
}

// Compile-time check
var _ domainRepo.LookupRepository[struct{}] = (*LookupRepository[struct{}])(nil)

// Get retrieves a session, returning found status.
func (r *LookupRepository[T]) Get(id string) (T, bool) {
	key := lookupKeyPrefix + id
	if x, found := r.cache.Get(key); found {
		if session, ok := x.(T); ok {
			r.logger.Debug("Memory cache hit", zap.String("key", key))
			return session, true
		}
		r.logger.Warn(
			"Memory cache data type mismatch for key",
			zap.String("key", key), zap.String("type", fmt.Sprintf("%T", x)),
		)
	}
	r.logger.Debug("Memory cache miss", zap.String("key", key))
	var zero T
	return zero, false
}

// Set stores a session with the given TTL; a non-positive TTL uses the store default.
func (r *LookupRepository[T]) Set(id string, session T, ttl time.Duration) {
	key := lookupKeyPrefix + id
	if ttl <= 0 {
		ttl = r.ttl
	}
	r.cache.Set(key, session, ttl)
	r.logger.Debug("Memory cache set", zap.String("key", key), zap.Duration("ttl", ttl))
}

// Touch extends the lifetime of an existing session, reporting whether it existed.
func (r *LookupRepository[T]) Touch(id string, ttl time.Duration) bool {
	session, ok := r.Get(id)
	if !ok {
		return false
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	// Replace keeps the entry without firing the eviction callback.
	return r.cache.Replace(lookupKeyPrefix+id, session, ttl) == nil
}

// Delete removes a session.
func (r *LookupRepository[T]) Delete(id string) {
	r.cache.Delete(lookupKeyPrefix + id)
}
