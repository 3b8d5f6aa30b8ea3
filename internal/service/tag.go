package service

import (
	"context"

	"github.com/officeplus/faq-api/internal/core"
	"github.com/officeplus/faq-api/internal/domain/model"
)

// TagService exposes tag management.
type TagService struct {
	tags core.TagRepository
}

// NewTagService constructs a new TagService.
func NewTagService(repo core.TagRepository) *TagService {
	return &TagService{tags: repo}
}

// List returns every tag with its FAQ count.
func (s *TagService) List(ctx context.Context) ([]model.TagWithCount, error) {
	tags, err := s.tags.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []model.TagWithCount{}
	}
	return tags, nil
}

// Get returns one tag.
func (s *TagService) Get(ctx context.Context, id int64) (*model.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

// Create creates a tag.
func (s *TagService) Create(ctx context.Context, req *model.CreateTagRequest) (*model.Tag, error) {
	return s.tags.Create(ctx, req)
}

// Update updates a tag.
func (s *TagService) Update(ctx context.Context, id int64, req *model.UpdateTagRequest) (*model.Tag, error) {
	return s.tags.Update(ctx, id, req)
}

// Delete deletes a tag and its FAQ links.
func (s *TagService) Delete(ctx context.Context, id int64) error {
	return s.tags.Delete(ctx, id)
}
