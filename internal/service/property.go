package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
)

// PropertyService holds the listing rules on top of a property store:
// validation, one record per property type, keyword search.
type PropertyService struct {
	repo   repository.PropertyRepo
	logger *slog.Logger
}

func NewPropertyService(repo repository.PropertyRepo, logger *slog.Logger) *PropertyService {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &PropertyService{repo: repo, logger: logger}
}

// Add validates p, rejects a second record with the same property type and
// stores it. p.ID is set on success.
func (s *PropertyService) Add(ctx context.Context, p *models.Property) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := s.checkDuplicate(ctx, p.PropertyType, 0); err != nil {
		return 0, err
	}

	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("add property: %w", err)
	}
	p.ID = id
	s.logger.Info("property added", slog.Int64("id", id), slog.String("type", p.PropertyType))
	return id, nil
}

// Update replaces every field of the record with id.
func (s *PropertyService) Update(ctx context.Context, id int64, p *models.Property) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.checkDuplicate(ctx, p.PropertyType, id); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, p); err != nil {
		return fmt.Errorf("update property %d: %w", id, err)
	}
	p.ID = id
	return nil
}

func (s *PropertyService) Get(ctx context.Context, id int64) (*models.Property, error) {
	p, err := s.repo.GetOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *PropertyService) List(ctx context.Context) ([]models.Property, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return all, nil
}

// Search returns the records whose property type contains keyword, ignoring
// case. An empty keyword lists everything.
func (s *PropertyService) Search(ctx context.Context, keyword string) ([]models.Property, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return all, nil
	}

	out := make([]models.Property, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.PropertyType), keyword) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PropertyService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete property %d: %w", id, err)
	}
	s.logger.Info("property deleted", slog.Int64("id", id))
	return nil
}

// Purge removes every property.
func (s *PropertyService) Purge(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("purge properties: %w", err)
	}
	s.logger.Info("properties purged")
	return nil
}

// checkDuplicate fails when a record other than self already has kind.
func (s *PropertyService) checkDuplicate(ctx context.Context, kind string, self int64) error {
	same, err := s.repo.GetByField(ctx, repository.FieldPropertyType, kind)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	for _, p := range same {
		if p.ID != self {
			return fmt.Errorf("%w: %q", ErrDuplicate, kind)
		}
	}
	return nil
}
