package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.lsp.dev/uri"
	"golang.org/x/sync/singleflight"
)

// Section is the configuration section requested from the editor.
const Section = "hlasm"

type Settings struct {
	MaxNumberOfProblems int `json:"maxNumberOfProblems"`
	MaxLineLength       int `json:"maxLineLength"`
}

var Default = Settings{
	MaxNumberOfProblems: 1000,
	MaxLineLength:       80,
}

// normalize replaces unset or nonsensical values with the defaults.
func (s Settings) normalize() Settings {
	if s.MaxNumberOfProblems <= 0 {
		s.MaxNumberOfProblems = Default.MaxNumberOfProblems
	}
	if s.MaxLineLength <= 0 {
		s.MaxLineLength = Default.MaxLineLength
	}
	return s
}

// Decode reads settings from raw JSON. Missing fields keep their defaults
// and a null value yields Default.
func Decode(raw json.RawMessage) (Settings, error) {
	s := Default
	if len(raw) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(raw, &s); err != nil {
		return Default, fmt.Errorf("unable to decode %s settings: %w", Section, err)
	}

	return s.normalize(), nil
}

// LookupFunc asks the editor for the settings that apply to a document.
type LookupFunc func(ctx context.Context, scopeUri uri.URI) (Settings, error)

// Cache memoizes settings per document. Without a lookup function every
// document shares the global settings.
type Cache struct {
	mu        sync.Mutex
	global    Settings
	lookup    LookupFunc
	documents map[uri.URI]Settings
	flight    singleflight.Group
}

func NewCache() *Cache {
	return &Cache{
		global:    Default,
		documents: map[uri.URI]Settings{},
	}
}

func (c *Cache) SetLookup(fn LookupFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookup = fn
	c.documents = map[uri.URI]Settings{}
}

func (c *Cache) Global() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.global
}

func (c *Cache) SetGlobal(s Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.global = s.normalize()
}

// Get returns the settings for docUri, asking the editor only on a miss.
// Lookup errors are returned as is and nothing is cached for them.
func (c *Cache) Get(ctx context.Context, docUri uri.URI) (Settings, error) {
	c.mu.Lock()
	lookup := c.lookup
	global := c.global
	cached, ok := c.documents[docUri]
	c.mu.Unlock()

	if lookup == nil {
		return global, nil
	} else if ok {
		return cached, nil
	}

	result, err, _ := c.flight.Do(string(docUri), func() (interface{}, error) {
		s, err := lookup(ctx, docUri)
		if err != nil {
			return nil, err
		}

		s = s.normalize()
		c.mu.Lock()
		c.documents[docUri] = s
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return Settings{}, err
	}

	return result.(Settings), nil
}

// Invalidate drops every cached document entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents = map[uri.URI]Settings{}
}

func (c *Cache) Forget(docUri uri.URI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.documents, docUri)
}

// Cached reports whether docUri currently has memoized settings.
func (c *Cache) Cached(docUri uri.URI) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.documents[docUri]
	return ok
}
