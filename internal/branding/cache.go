package branding

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

type entryState int

const (
	stateUnresolved entryState = iota
	stateInFlight
	stateResolved
)

type entry struct {
	state entryState
	url   string
}

type logoStore interface {
	FindLogo(ctx context.Context, mode enums.DisplayMode) (string, error)
}

type hashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSetWithTTL(ctx context.Context, key, field, value string, ttl time.Duration) error
	BrandingLogosKey() string
}

// Cache resolves branding logos once per process and shares in-flight lookups.
type Cache struct {
	store    logoStore
	redis    hashStore
	defaults map[enums.DisplayMode]string
	ttl      time.Duration
	metrics  *metrics.Storefront
	logg     *logger.Logger

	mu      sync.Mutex
	entries map[enums.DisplayMode]*entry
	group   singleflight.Group
}

// NewCache builds the logo cache. The redis store is optional.
func NewCache(store logoStore, redis hashStore, cfg config.BrandingConfig, m *metrics.Storefront, logg *logger.Logger) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("branding repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Cache{
		store: store,
		redis: redis,
		defaults: map[enums.DisplayMode]string{
			enums.DisplayModeLight: strings.TrimSpace(cfg.DefaultLightLogoURL),
			enums.DisplayModeDark:  strings.TrimSpace(cfg.DefaultDarkLogoURL),
		},
		ttl:     cfg.CacheTTL,
		metrics: m,
		logg:    logg,
		entries: map[enums.DisplayMode]*entry{},
	}, nil
}

// LogoURL returns the logo for the mode, falling back to the configured default.
func (c *Cache) LogoURL(ctx context.Context, mode enums.DisplayMode) (string, error) {
	if !mode.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "mode must be light or dark")
	}

	c.mu.Lock()
	e := c.entryFor(mode)
	if e.state == stateResolved {
		value := e.url
		c.mu.Unlock()
		c.metrics.IncBrandingLookup(metrics.LookupHit)
		return value, nil
	}
	e.state = stateInFlight
	c.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	value, err, _ := c.group.Do(string(mode), func() (any, error) {
		return c.resolve(detached, mode)
	})
	if err != nil {
		c.mu.Lock()
		if e.state == stateInFlight {
			e.state = stateUnresolved
		}
		c.mu.Unlock()
		c.metrics.IncBrandingLookup(metrics.LookupError)
		c.logg.Warn(c.logg.WithField(ctx, "mode", mode), "branding lookup failed, serving default logo")
		return c.defaults[mode], nil
	}
	return value.(string), nil
}

func (c *Cache) entryFor(mode enums.DisplayMode) *entry {
	e, ok := c.entries[mode]
	if !ok {
		e = &entry{}
		c.entries[mode] = e
	}
	return e
}

func (c *Cache) resolve(ctx context.Context, mode enums.DisplayMode) (string, error) {
	if value := c.fromRedis(ctx, mode); value != "" {
		c.settle(mode, value)
		c.metrics.IncBrandingLookup(metrics.LookupRedis)
		return value, nil
	}

	value, err := c.store.FindLogo(ctx, mode)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value != "" {
		c.writeRedis(ctx, mode, value)
		c.settle(mode, value)
		c.metrics.IncBrandingLookup(metrics.LookupDatabase)
		return value, nil
	}

	value = c.defaults[mode]
	c.settle(mode, value)
	c.metrics.IncBrandingLookup(metrics.LookupDefault)
	return value, nil
}

func (c *Cache) settle(mode enums.DisplayMode, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryFor(mode)
	e.state = stateResolved
	e.url = value
}

func (c *Cache) fromRedis(ctx context.Context, mode enums.DisplayMode) string {
	if c.redis == nil {
		return ""
	}
	fields, err := c.redis.HGetAll(ctx, c.redis.BrandingLogosKey())
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "mode", mode), "branding redis read failed")
		return ""
	}
	value := strings.TrimSpace(fields[string(mode)])
	if !isLogoURL(value) {
		return ""
	}
	return value
}

func (c *Cache) writeRedis(ctx context.Context, mode enums.DisplayMode, value string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.HSetWithTTL(ctx, c.redis.BrandingLogosKey(), string(mode), value, c.ttl); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "mode", mode), "branding redis write failed")
	}
}

// Forget drops the resolved value so the next lookup reads the sources again.
func (c *Cache) Forget(mode enums.DisplayMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[mode]; ok && e.state == stateResolved {
		e.state = stateUnresolved
		e.url = ""
	}
}

func isLogoURL(value string) bool {
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "/") {
		return true
	}
	u, err := url.Parse(value)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
