package application

import (
	"context"

	"github.com/dfryer1193/localblog/blog/domain"
)

// ThemeService reads and flips the persisted display theme.
type ThemeService struct {
	storage domain.PostStorage
}

func NewThemeService(storage domain.PostStorage) *ThemeService {
	return &ThemeService{storage: storage}
}

func (s *ThemeService) Current(ctx context.Context) domain.Theme {
	return s.storage.LoadTheme(ctx)
}

// Toggle persists and returns the opposite of the current theme.
func (s *ThemeService) Toggle(ctx context.Context) (domain.Theme, error) {
	next := s.Current(ctx).Toggle()
	if err := s.storage.SaveTheme(ctx, next); err != nil {
		return s.Current(ctx), err
	}
	return next, nil
}

// ThemeToggleLabel is the caption of the button that switches away from t.
func ThemeToggleLabel(t domain.Theme) string {
	if t.IsDark() {
		return "☀️ Light Mode"
	}
	return "🌙 Dark Mode"
}
