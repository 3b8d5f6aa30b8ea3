package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/officeplus/faq-api/internal/core"
	"github.com/officeplus/faq-api/internal/data/pgxutil"
	"github.com/officeplus/faq-api/internal/domain/model"
	errs "github.com/officeplus/faq-api/internal/errors"
)

const tagColumns = `id, name, description, created_at, updated_at`

var _ core.TagRepository = (*TagRepo)(nil)

// TagRepo provides database operations for tags.
type TagRepo struct {
	DB           pgxutil.DB
	timeProvider TimeProvider
}

// NewTagRepo creates a new TagRepo with real time provider.
func NewTagRepo(db pgxutil.DB) *TagRepo {
	return &TagRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewTagRepoWithTimeProvider creates a new TagRepo with a custom time provider (useful for tests).
func NewTagRepoWithTimeProvider(db pgxutil.DB, tp TimeProvider) *TagRepo {
	return &TagRepo{DB: db, timeProvider: tp}
}

// ListWithCounts returns every tag with the number of FAQs linked to it.
func (r *TagRepo) ListWithCounts(ctx context.Context) ([]model.TagWithCount, error) {
	out, err := pgxutil.CollectAll[model.TagWithCount](ctx, r.DB, `
		SELECT t.id, t.name, t.description, t.created_at, t.updated_at, COUNT(ft.faq_id) AS faq_count
		FROM tags t
		LEFT JOIN faq_tags ft ON ft.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", errs.MapDBError(err))
	}
	return out, nil
}

// GetByID returns one tag.
func (r *TagRepo) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	tag, err := pgxutil.CollectOne[model.Tag](ctx, r.DB, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
	if err != nil {
		mapped := errs.MapDBError(err)
		if errs.IsNotFound(mapped) {
			return nil, errs.NotFoundf("tag %d not found", id)
		}
		return nil, fmt.Errorf("get tag: %w", mapped)
	}
	return &tag, nil
}

// Create inserts a tag. A duplicate name yields a Conflict error.
func (r *TagRepo) Create(ctx context.Context, req *model.CreateTagRequest) (*model.Tag, error) {
	if req == nil {
		return nil, errors.New("create tag request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := r.timeProvider.Now()
	tag, err := pgxutil.CollectOne[model.Tag](ctx, r.DB, `
		INSERT INTO tags (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING `+tagColumns, req.Name, req.Description, now)
	if err != nil {
		return nil, tagWriteErr(err, req.Name)
	}
	return &tag, nil
}

// Update changes a tag's name and/or description. An empty description clears it.
func (r *TagRepo) Update(ctx context.Context, id int64, req *model.UpdateTagRequest) (*model.Tag, error) {
	if req == nil {
		return nil, errors.New("update tag request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	tag, err := pgxutil.CollectOne[model.Tag](ctx, r.DB, `
		UPDATE tags SET
			name = COALESCE($2, name),
			description = CASE WHEN $3::text IS NULL THEN description ELSE NULLIF($3::text, '') END,
			updated_at = $4
		WHERE id = $1
		RETURNING `+tagColumns, id, req.Name, req.Description, r.timeProvider.Now())
	if err != nil {
		if errs.IsNotFound(errs.MapDBError(err)) {
			return nil, errs.NotFoundf("tag %d not found", id)
		}
		name := ""
		if req.Name != nil {
			name = *req.Name
		}
		return nil, tagWriteErr(err, name)
	}
	return &tag, nil
}

// Delete removes a tag; its FAQ links go with it.
func (r *TagRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", errs.MapDBError(err))
	}
	if res.RowsAffected() == 0 {
		return errs.NotFoundf("tag %d not found", id)
	}
	return nil
}

func tagWriteErr(err error, name string) error {
	mapped := errs.MapDBError(err)
	if errs.IsConflict(mapped) {
		e := errs.Conflictf("tag %q already exists", name)
		e.Field = "name"
		e.Cause = err
		return e
	}
	return fmt.Errorf("write tag: %w", mapped)
}
