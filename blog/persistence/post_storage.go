package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/localblog/blog/domain"
	"github.com/dfryer1193/localblog/shared/kv"
)

var _ domain.PostStorage = (*KVPostStorage)(nil)

const (
	postsKey = "posts"
	themeKey = "theme"
)

// KVPostStorage implements domain.PostStorage with two slots of a kv.Store:
// the JSON-encoded post collection and the theme string.
type KVPostStorage struct {
	store kv.Store
}

// NewPostStorage creates a KVPostStorage on top of store
func NewPostStorage(store kv.Store) *KVPostStorage {
	return &KVPostStorage{
		store: store,
	}
}

// Load returns the persisted posts. Missing or unparsable data is an empty collection.
func (s *KVPostStorage) Load(ctx context.Context) []domain.Post {
	raw, err := s.store.Get(ctx, postsKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn().Err(err).Msg("Failed to read posts, starting empty")
		}
		return []domain.Post{}
	}

	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		log.Warn().Err(err).Int("bytes", len(raw)).Msg("Stored posts are unparsable, starting empty")
		return []domain.Post{}
	}

	if posts == nil {
		return []domain.Post{}
	}
	return posts
}

// Save overwrites the persisted collection in a single write.
func (s *KVPostStorage) Save(ctx context.Context, posts []domain.Post) error {
	if posts == nil {
		posts = []domain.Post{}
	}

	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}

	if err := s.store.Set(ctx, postsKey, raw); err != nil {
		return fmt.Errorf("failed to save posts: %w", err)
	}
	return nil
}

// LoadTheme returns the persisted theme, light when unset or unreadable.
func (s *KVPostStorage) LoadTheme(ctx context.Context) domain.Theme {
	raw, err := s.store.Get(ctx, themeKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn().Err(err).Msg("Failed to read theme, using light")
		}
		return domain.ThemeLight
	}
	return domain.ParseTheme(string(raw))
}

func (s *KVPostStorage) SaveTheme(ctx context.Context, theme domain.Theme) error {
	if err := s.store.Set(ctx, themeKey, []byte(domain.ParseTheme(string(theme)))); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}
