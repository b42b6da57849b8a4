package session

import (
	"errors"
	"net/http"
	"sync"
	"time"
)

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Clear drops every stored value.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = map[string]string{}
}

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	MaxAge time.Duration
	Secure bool
}

// CookieStore persists values as cookies on a single request/response pair.
type CookieStore struct {
	r       *http.Request
	w       http.ResponseWriter
	opts    CookieOptions
	written map[string]string
}

// NewCookieStore binds a store to the current request and response.
func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	return &CookieStore{r: r, w: w, opts: opts, written: map[string]string{}}
}

func (c *CookieStore) Get(key string) (string, error) {
	if v, ok := c.written[key]; ok {
		return v, nil
	}
	cookie, err := c.r.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func (c *CookieStore) Set(key, value string) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.written[key] = value
	return nil
}
