package session

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	// ServerSentinel is returned when there is no client storage to read from.
	ServerSentinel = "server"
	// MinTokenLength rejects truncated or corrupted stored values.
	MinTokenLength = 16
	// DefaultKey is the storage key holding the session token.
	DefaultKey = "sf_session"
)

// Store is client-local key/value storage for the session token.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Identity resolves the stable per-browser session token.
type Identity struct {
	key    string
	logg   *logger.Logger
	newID  func() (string, error)
	nowFn  func() time.Time
	randFn func() uint64
}

// NewIdentity returns an Identity reading and writing key. An empty key uses DefaultKey.
func NewIdentity(key string, logg *logger.Logger) *Identity {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	return &Identity{
		key:  key,
		logg: logg,
		newID: func() (string, error) {
			id, err := uuid.NewRandom()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
		nowFn:  time.Now,
		randFn: rand.Uint64,
	}
}

// Key returns the storage key.
func (i *Identity) Key() string {
	return i.key
}

// SessionID returns the persisted token, creating and persisting one on first use.
// A nil store yields ServerSentinel. Storage failures never surface; the caller gets a
// fresh token that simply will not survive the next request.
func (i *Identity) SessionID(ctx context.Context, store Store) string {
	if store == nil {
		return ServerSentinel
	}

	existing, err := store.Get(i.key)
	if err != nil {
		i.warn(ctx, "session storage read failed", err)
	} else if IsValid(existing) {
		return strings.TrimSpace(existing)
	}

	id := i.generate()
	if err := store.Set(i.key, id); err != nil {
		i.warn(ctx, "session storage write failed", err)
	}
	return id
}

func (i *Identity) generate() string {
	if id, err := i.newID(); err == nil && id != "" {
		return id
	}
	id := strconv.FormatInt(i.nowFn().UnixMilli(), 36) + "-" + strconv.FormatUint(i.randFn(), 36)
	for len(id) < MinTokenLength {
		id += strconv.FormatUint(i.randFn(), 36)
	}
	return id
}

func (i *Identity) warn(ctx context.Context, msg string, err error) {
	if i.logg == nil {
		return
	}
	i.logg.Warn(i.logg.WithField(ctx, "error", err.Error()), msg)
}

// IsServerSentinel reports whether id is the no-client placeholder.
func IsServerSentinel(id string) bool {
	return id == ServerSentinel
}

// IsValid reports whether id can own a cart.
func IsValid(id string) bool {
	id = strings.TrimSpace(id)
	return !IsServerSentinel(id) && len(id) >= MinTokenLength
}
