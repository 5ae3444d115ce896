package di

import (
	"log/slog"

	"github.com/goliatone/go-pagination-cache/cache"
	"github.com/goliatone/go-pagination-cache/paginationcache"
)

// Container provides dependency injection for the pagination cache
// components. It manages singleton instances of the cache service, key
// serializer, logger, and notifier, and provides a factory for building
// entity resources against them.
type Container struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	logger        *slog.Logger
	notifier      paginationcache.Notifier
}

// ContainerOption customizes a container.
type ContainerOption func(*Container)

// WithLogger sets the container-wide logger.
func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *Container) { c.logger = logger }
}

// WithNotifier sets the notification sink shared by every resource built
// from this container.
func WithNotifier(n paginationcache.Notifier) ContainerOption {
	return func(c *Container) { c.notifier = n }
}

// WithKeySerializer replaces the default key serializer.
func WithKeySerializer(s cache.KeySerializer) ContainerOption {
	return func(c *Container) { c.keySerializer = s }
}

// NewContainer creates a DI container backed by the in-memory cache.
func NewContainer(cfg cache.Config, opts ...ContainerOption) (*Container, error) {
	service, err := cache.NewCacheService(cfg)
	if err != nil {
		return nil, err
	}
	return newContainer(service, opts...), nil
}

// NewContainerWithDefaults creates a container using default in-memory
// configuration.
func NewContainerWithDefaults(opts ...ContainerOption) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// NewRedisContainer creates a container backed by Redis.
func NewRedisContainer(cfg cache.RedisConfig, opts ...ContainerOption) (*Container, error) {
	service, err := cache.NewRedisCacheService(cfg)
	if err != nil {
		return nil, err
	}
	return newContainer(service, opts...), nil
}

// NewContainerFromFile builds a container from a YAML cache config file,
// falling back to in-memory defaults when the file is absent.
func NewContainerFromFile(path string, opts ...ContainerOption) (*Container, error) {
	service, err := cache.LoadFileConfigOrDefault(path).BuildService()
	if err != nil {
		return nil, err
	}
	return newContainer(service, opts...), nil
}

func newContainer(service cache.CacheService, opts ...ContainerOption) *Container {
	c := &Container{
		cacheService:  service,
		keySerializer: cache.NewDefaultKeySerializer(),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = paginationcache.LogNotifier{Logger: c.logger}
	}
	return c
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Logger returns the container-wide logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Notifier returns the shared notification sink.
func (c *Container) Notifier() paginationcache.Notifier {
	return c.notifier
}

// NewResource builds an entity resource wired to the container's cache
// service, serializer, logger, and notifier. Fields already set on the
// config win, so callers can override per resource.
//
// Since Go methods cannot have type parameters, this is provided as a
// package-level function. Example: di.NewResource[Order](container, cfg)
func NewResource[T any](container *Container, cfg paginationcache.ResourceConfig[T]) (*paginationcache.Resource[T], error) {
	if cfg.Store == nil {
		cfg.Store = container.cacheService
	}
	if cfg.Serializer == nil {
		cfg.Serializer = container.keySerializer
	}
	if cfg.Logger == nil {
		cfg.Logger = container.logger
	}
	if cfg.Notifier == nil {
		cfg.Notifier = container.notifier
	}
	return paginationcache.NewResource(cfg)
}

// NewCoordinator builds a standalone coordinator (no mutation surface) wired
// to the container's singletons.
func NewCoordinator[T any](container *Container, opts paginationcache.Options, fetch paginationcache.Fetcher[T]) (*paginationcache.Coordinator[T], error) {
	if opts.Store == nil {
		opts.Store = container.cacheService
	}
	if opts.Serializer == nil {
		opts.Serializer = container.keySerializer
	}
	if opts.Logger == nil {
		opts.Logger = container.logger
	}
	return paginationcache.NewCoordinator(opts, fetch)
}
