package application

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/localblog/blog/domain"
)

// PostRepository owns the ordered in-memory post collection.
// Every mutation is written through to storage before it becomes visible in
// memory; when the write fails the collection is left as it was.
type PostRepository struct {
	mu      sync.RWMutex
	storage domain.PostStorage
	posts   []domain.Post
	now     func() time.Time
}

// NewPostRepository loads the collection from storage.
// now defaults to time.Now when nil.
func NewPostRepository(ctx context.Context, storage domain.PostStorage, now func() time.Time) *PostRepository {
	if now == nil {
		now = time.Now
	}

	return &PostRepository{
		storage: storage,
		posts:   storage.Load(ctx),
		now:     now,
	}
}

// Reload replaces the in-memory collection with what storage currently holds,
// picking up writes made by other processes sharing the store.
// The load happens under the write lock so a snapshot read before a
// concurrent commit can never replace it.
func (r *PostRepository) Reload(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts = r.storage.Load(ctx)
}

// Create appends a new post at the tail of the collection.
func (r *PostRepository) Create(ctx context.Context, title, content, image string) (domain.Post, error) {
	title, content, err := validateFields(title, content)
	if err != nil {
		return domain.Post{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	post := domain.Post{
		ID:      r.nextID(now),
		Title:   title,
		Content: content,
		Image:   image,
		Date:    now.Format(domain.DateLayout),
	}

	next := append(slices.Clone(r.posts), post)
	if err := r.commit(ctx, next); err != nil {
		return domain.Post{}, err
	}

	log.Debug().Int64("postID", post.ID).Msg("Created post")
	return post, nil
}

// Update overwrites title, content and date of the post with id.
// The image is only replaced when a non-empty one is supplied.
func (r *PostRepository) Update(ctx context.Context, id int64, title, content, image string) (domain.Post, error) {
	title, content, err := validateFields(title, content)
	if err != nil {
		return domain.Post{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return domain.Post{}, fmt.Errorf("update %d: %w", id, domain.ErrNotFound)
	}

	post := r.posts[idx]
	post.Title = title
	post.Content = content
	post.Date = r.now().Format(domain.DateLayout)
	if image != "" {
		post.Image = image
	}

	next := slices.Clone(r.posts)
	next[idx] = post
	if err := r.commit(ctx, next); err != nil {
		return domain.Post{}, err
	}

	log.Debug().Int64("postID", id).Msg("Updated post")
	return post, nil
}

// Delete removes the post with id. A missing id is not an error; the
// collection is persisted either way.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(r.posts), func(p domain.Post) bool {
		return p.ID == id
	})
	if err := r.commit(ctx, next); err != nil {
		return err
	}

	log.Debug().Int64("postID", id).Msg("Deleted post")
	return nil
}

// FindByID returns the post with id.
func (r *PostRepository) FindByID(id int64) (domain.Post, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return domain.Post{}, false
	}
	return r.posts[idx], true
}

// Search returns, in collection order, the posts whose title or content
// contains keyword, ignoring case. An empty keyword matches every post.
func (r *PostRepository) Search(keyword string) []domain.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keyword = strings.ToLower(keyword)
	matches := make([]domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if strings.Contains(strings.ToLower(p.Title), keyword) ||
			strings.Contains(strings.ToLower(p.Content), keyword) {
			matches = append(matches, p)
		}
	}
	return matches
}

// All returns a copy of the whole collection.
func (r *PostRepository) All() []domain.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.posts)
}

// commit persists next and only then swaps it in. Callers hold r.mu.
func (r *PostRepository) commit(ctx context.Context, next []domain.Post) error {
	if next == nil {
		next = []domain.Post{}
	}
	if err := r.storage.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist posts: %w", err)
	}
	r.posts = next
	return nil
}

func (r *PostRepository) indexOf(id int64) int {
	return slices.IndexFunc(r.posts, func(p domain.Post) bool {
		return p.ID == id
	})
}

// nextID derives an id from the creation time in milliseconds, bumped past
// the largest existing id so ids stay unique within the collection.
func (r *PostRepository) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, p := range r.posts {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	return id
}

func validateFields(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" {
		return "", "", fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if content == "" {
		return "", "", fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	return title, content, nil
}
