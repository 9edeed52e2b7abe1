package service

import (
	"context"
	"errors"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/repository"
)

// History listing bounds.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryService manages saved calculations.
type HistoryService interface {
	Save(ctx context.Context, entry *model.HistoryEntry) error
	// List returns the newest entries; limit is clamped to 1..MaxHistoryLimit
	// and non-positive means the default.
	List(ctx context.Context, limit int) ([]model.HistoryEntry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int64, error)
}

// HistoryServiceImpl implements HistoryService.
type HistoryServiceImpl struct {
	repo         repository.HistoryRepositoryInterface
	defaultLimit int
}

// NewHistoryService creates a new history service. A nil repository makes
// every call return ErrRepositoryNotConfigured.
func NewHistoryService(repo repository.HistoryRepositoryInterface, defaultLimit int) *HistoryServiceImpl {
	if defaultLimit <= 0 || defaultLimit > MaxHistoryLimit {
		defaultLimit = DefaultHistoryLimit
	}
	return &HistoryServiceImpl{repo: repo, defaultLimit: defaultLimit}
}

// Save persists a calculation.
func (s *HistoryServiceImpl) Save(ctx context.Context, entry *model.HistoryEntry) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	return s.repo.Create(ctx, entry)
}

// List returns saved calculations newest first. A non-positive limit uses the
// default; larger limits are capped at MaxHistoryLimit.
func (s *HistoryServiceImpl) List(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	switch {
	case limit <= 0:
		limit = s.defaultLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries, nil
}

// Delete removes one calculation, returning ErrHistoryNotFound for an unknown id.
func (s *HistoryServiceImpl) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrHistoryNotFound
	}
	return err
}

// Clear removes all calculations and reports how many were deleted.
func (s *HistoryServiceImpl) Clear(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, ErrRepositoryNotConfigured
	}
	return s.repo.Clear(ctx)
}
