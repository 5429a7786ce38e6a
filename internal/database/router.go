package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Router manages database adapters and keeps one live connection per target
type Router struct {
	factories map[string]AdapterFactory
	pool      map[string]Adapter
	mu        sync.RWMutex
}

// NewRouter creates a new adapter router
func NewRouter() *Router {
	return &Router{
		factories: make(map[string]AdapterFactory),
		pool:      make(map[string]Adapter),
	}
}

// RegisterAdapter registers an adapter factory for a database type
func (r *Router) RegisterAdapter(dbType string, factory AdapterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[dbType] = factory
}

// SupportedDatabases returns the registered database types in sorted order
func (r *Router) SupportedDatabases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for dbType := range r.factories {
		types = append(types, dbType)
	}
	sort.Strings(types)
	return types
}

func poolKey(dbType string, config ConnectionConfig) string {
	return fmt.Sprintf("%s:%s:%d/%s", dbType, config.Host, config.Port, config.Database)
}

// GetAdapter returns a connected adapter for the target, creating it if needed.
// A pooled adapter that fails its health check is closed and replaced.
func (r *Router) GetAdapter(ctx context.Context, dbType string, config ConnectionConfig) (Adapter, error) {
	key := poolKey(dbType, config)

	r.mu.RLock()
	adapter, ok := r.pool[key]
	r.mu.RUnlock()
	if ok {
		if err := adapter.HealthCheck(ctx); err == nil {
			return adapter, nil
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if adapter, ok := r.pool[key]; ok {
		if err := adapter.HealthCheck(ctx); err == nil {
			return adapter, nil
		}
		adapter.Close()
		delete(r.pool, key)
	}

	factory, ok := r.factories[dbType]
	if !ok {
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	adapter = factory()
	if err := adapter.Connect(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	r.pool[key] = adapter
	return adapter, nil
}

// CloseAll closes all connections
func (r *Router) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, adapter := range r.pool {
		adapter.Close()
		delete(r.pool, key)
	}
}

// PoolSize returns the current number of pooled connections
func (r *Router) PoolSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pool)
}
