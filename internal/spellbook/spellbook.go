// Package spellbook looks up spells from the 5e API and turns their areas of
// effect into templates.
package spellbook

//go:generate mockgen -destination=mock/mock_client.go -package=mockspellbook -source=spellbook.go

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	apiDnd5e "github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
)

// Client is the slice of the 5e API client the spellbook uses
type Client interface {
	GetSpell(key string) (*entities.Spell, error)
}

// Config configures a Book
type Config struct {
	// Client defaults to the public 5e API over HTTPClient
	Client     Client
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Book caches spells by key. Concurrent lookups of the same key share one
// request.
type Book struct {
	client Client
	log    logrus.FieldLogger

	mu     sync.RWMutex
	spells map[string]*Spell
	group  singleflight.Group
}

// New creates a spellbook
func New(cfg *Config) (*Book, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	client := cfg.Client
	if client == nil {
		httpClient := cfg.HTTPClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: 30 * time.Second}
		}
		apiClient, err := apiDnd5e.NewDND5eAPI(&apiDnd5e.DND5eAPIConfig{
			Client: httpClient,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create 5e api client")
		}
		client = apiClient
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Book{
		client: client,
		log:    log.WithField("component", "spellbook"),
		spells: make(map[string]*Spell),
	}, nil
}

// Spell returns the spell for key, fetching it on first use. Keys are
// normalised to the API's lower-case, hyphenated form.
func (b *Book) Spell(ctx context.Context, key string) (*Spell, error) {
	key = NormalizeKey(key)
	if key == "" {
		return nil, errors.InvalidArgument("spell key is required")
	}

	if spell := b.cached(key); spell != nil {
		return spell, nil
	}

	result := b.group.DoChan(key, func() (any, error) {
		if spell := b.cached(key); spell != nil {
			return spell, nil
		}

		apiSpell, err := b.client.GetSpell(key)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get spell "+key)
		}
		if apiSpell == nil {
			return nil, errors.NotFoundf("spell %s not found", key)
		}

		spell := fromEntity(apiSpell)
		b.mu.Lock()
		b.spells[key] = spell
		b.mu.Unlock()

		b.log.WithField("spell", key).Debug("spell cached")
		return spell, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return copySpell(res.Val.(*Spell)), nil
	}
}

// Put seeds the cache, for offline scenes and tests
func (b *Book) Put(spell *Spell) {
	if spell == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.spells[NormalizeKey(spell.Key)] = copySpell(spell)
}

func (b *Book) cached(key string) *Spell {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if spell, ok := b.spells[key]; ok {
		return copySpell(spell)
	}
	return nil
}

// NormalizeKey turns "Hold Person" into "hold-person"
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.Join(strings.Fields(key), "-")
}

func copySpell(s *Spell) *Spell {
	out := *s
	if s.Area != nil {
		area := *s.Area
		out.Area = &area
	}
	return &out
}
