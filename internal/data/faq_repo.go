package data

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/officeplus/faq-api/internal/core"
	"github.com/officeplus/faq-api/internal/data/pgxutil"
	"github.com/officeplus/faq-api/internal/domain/model"
	errs "github.com/officeplus/faq-api/internal/errors"
)

const faqColumns = `f.id, f.question, f.answer, f.category, f.is_active, f.usage_frequency,
	f.created_by, f.updated_by, f.created_at, f.updated_at`

var _ core.FAQRepository = (*FAQRepo)(nil)

// FAQRepo provides database operations for FAQs, their tag links and
// question variants.
type FAQRepo struct {
	DB           pgxutil.DB
	timeProvider TimeProvider
}

// NewFAQRepo creates a new FAQRepo with real time provider.
func NewFAQRepo(db pgxutil.DB) *FAQRepo {
	return &FAQRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewFAQRepoWithTimeProvider creates a new FAQRepo with a custom time provider (useful for tests).
func NewFAQRepoWithTimeProvider(db pgxutil.DB, tp TimeProvider) *FAQRepo {
	return &FAQRepo{DB: db, timeProvider: tp}
}

// List returns one page of FAQs with tags and variants, plus the total
// number of matching rows.
func (r *FAQRepo) List(ctx context.Context, opts model.FAQListOptions) ([]model.FAQ, int64, error) {
	opts = opts.Normalize()
	where, args := faqFilter(opts)

	var total int64
	if err := r.DB.QueryRow(ctx, "SELECT COUNT(*) FROM faqs f"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count faqs: %w", errs.MapDBError(err))
	}
	if total == 0 {
		return []model.FAQ{}, 0, nil
	}

	n := len(args)
	query := "SELECT " + faqColumns + " FROM faqs f" + where +
		" ORDER BY f.usage_frequency DESC, f.id DESC" +
		" LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	args = append(args, opts.PageSize, opts.Offset())

	faqs, err := pgxutil.CollectAll[model.FAQ](ctx, r.DB, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list faqs: %w", errs.MapDBError(err))
	}
	if err := loadRelations(ctx, r.DB, faqs); err != nil {
		return nil, 0, err
	}
	return faqs, total, nil
}

// faqFilter renders the WHERE clause for opts. Placeholders start at $1.
func faqFilter(opts model.FAQListOptions) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if opts.Search != "" {
		p := next("%" + escapeLike(opts.Search) + "%")
		conds = append(conds, "(f.question ILIKE "+p+" OR f.answer ILIKE "+p+")")
	}
	if opts.Category != "" {
		conds = append(conds, "f.category = "+next(opts.Category))
	}
	if opts.TagID != nil {
		conds = append(conds,
			"EXISTS (SELECT 1 FROM faq_tags ft WHERE ft.faq_id = f.id AND ft.tag_id = "+next(*opts.TagID)+")")
	}
	if opts.IsActive != nil {
		conds = append(conds, "f.is_active = "+next(*opts.IsActive))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`) //nolint:gochecknoglobals // stateless

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// GetByID returns one FAQ with its tags and variants.
func (r *FAQRepo) GetByID(ctx context.Context, id int64) (*model.FAQ, error) {
	faq, err := pgxutil.CollectOne[model.FAQ](ctx, r.DB,
		"SELECT "+faqColumns+" FROM faqs f WHERE f.id = $1", id)
	if err != nil {
		return nil, faqErr(err, id, "get faq")
	}
	one := []model.FAQ{faq}
	if err := loadRelations(ctx, r.DB, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// IncrementUsage bumps usage_frequency by one.
func (r *FAQRepo) IncrementUsage(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `UPDATE faqs SET usage_frequency = usage_frequency + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment usage: %w", errs.MapDBError(err))
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("FAQ %d not found", id)
	}
	return nil
}

// Categories returns the distinct, non-empty categories of active FAQs.
func (r *FAQRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT DISTINCT category FROM faqs
		WHERE is_active AND category IS NOT NULL AND category <> ''
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", errs.MapDBError(err))
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", errs.MapDBError(err))
	}
	return out, nil
}

// Create inserts an FAQ, its tag links (upserting NewTagNames) and its
// variants in one transaction.
func (r *FAQRepo) Create(ctx context.Context, req *model.CreateFAQRequest, actor string) (*model.FAQ, error) {
	if req == nil {
		return nil, errors.New("create faq request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()
	var out model.FAQ
	err := pgxutil.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		out, err = pgxutil.CollectOne[model.FAQ](ctx, tx, `
			INSERT INTO faqs AS f (question, answer, category, is_active, usage_frequency, created_by, updated_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 0, $5, $5, $6, $6)
			RETURNING `+faqColumns,
			req.Question, req.Answer, req.Category, req.Active(), nullIfEmpty(actor), now)
		if err != nil {
			return err
		}

		tagIDs := append([]int64(nil), req.TagIDs...)
		for _, name := range req.NewTagNames {
			id, err := upsertTag(ctx, tx, name, now)
			if err != nil {
				return err
			}
			tagIDs = append(tagIDs, id)
		}
		if err := linkTags(ctx, tx, out.ID, tagIDs); err != nil {
			return err
		}
		if err := insertVariants(ctx, tx, out.ID, req.QuestionVariants, now); err != nil {
			return err
		}

		one := []model.FAQ{out}
		if err := loadRelations(ctx, tx, one); err != nil {
			return err
		}
		out = one[0]
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create faq: %w", errs.MapDBError(err))
	}
	return &out, nil
}

// Update applies a partial update. Non-nil TagIDs or QuestionVariants
// replace the existing sets.
func (r *FAQRepo) Update(ctx context.Context, id int64, req *model.UpdateFAQRequest, actor string) (*model.FAQ, error) {
	if req == nil {
		return nil, errors.New("update faq request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()
	var out model.FAQ
	err := pgxutil.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		out, err = pgxutil.CollectOne[model.FAQ](ctx, tx, `
			UPDATE faqs AS f SET
				question = COALESCE($2, f.question),
				answer = COALESCE($3, f.answer),
				category = CASE WHEN $4::text IS NULL THEN f.category ELSE NULLIF($4::text, '') END,
				is_active = COALESCE($5, f.is_active),
				updated_by = $6,
				updated_at = $7
			WHERE f.id = $1
			RETURNING `+faqColumns,
			id, req.Question, req.Answer, req.Category, req.IsActive, nullIfEmpty(actor), now)
		if err != nil {
			return err
		}

		if req.TagIDs != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM faq_tags WHERE faq_id = $1`, id); err != nil {
				return err
			}
			if err := linkTags(ctx, tx, id, req.TagIDs); err != nil {
				return err
			}
		}
		if req.QuestionVariants != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM question_variants WHERE faq_id = $1`, id); err != nil {
				return err
			}
			if err := insertVariants(ctx, tx, id, req.QuestionVariants, now); err != nil {
				return err
			}
		}

		one := []model.FAQ{out}
		if err := loadRelations(ctx, tx, one); err != nil {
			return err
		}
		out = one[0]
		return nil
	})
	if err != nil {
		return nil, faqErr(err, id, "update faq")
	}
	return &out, nil
}

// Deactivate soft-deletes an FAQ by clearing is_active.
func (r *FAQRepo) Deactivate(ctx context.Context, id int64, actor string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE faqs SET is_active = FALSE, updated_by = $2, updated_at = $3 WHERE id = $1`,
		id, nullIfEmpty(actor), r.timeProvider.Now())
	if err != nil {
		return fmt.Errorf("deactivate faq: %w", errs.MapDBError(err))
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("FAQ %d not found", id)
	}
	return nil
}

// AddVariant attaches one alternate phrasing to an FAQ.
func (r *FAQRepo) AddVariant(ctx context.Context, faqID int64, question string) (*model.QuestionVariant, error) {
	now := r.timeProvider.Now()
	v, err := pgxutil.CollectOne[model.QuestionVariant](ctx, r.DB, `
		INSERT INTO question_variants (faq_id, variant_question, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id, faq_id, variant_question, created_at, updated_at`,
		faqID, question, now)
	if err != nil {
		return nil, faqErr(err, faqID, "add variant")
	}
	return &v, nil
}

// DeleteVariant removes a variant that belongs to faqID.
func (r *FAQRepo) DeleteVariant(ctx context.Context, faqID, variantID int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM question_variants WHERE id = $1 AND faq_id = $2`, variantID, faqID)
	if err != nil {
		return fmt.Errorf("delete variant: %w", errs.MapDBError(err))
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("question variant %d not found for FAQ %d", variantID, faqID)
	}
	return nil
}

// DeleteVariantByID removes a variant regardless of which FAQ owns it.
func (r *FAQRepo) DeleteVariantByID(ctx context.Context, variantID int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM question_variants WHERE id = $1`, variantID)
	if err != nil {
		return fmt.Errorf("delete variant: %w", errs.MapDBError(err))
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("question variant %d not found", variantID)
	}
	return nil
}

// faqErr maps a missing row or a dangling faq_id reference to NotFound for
// the FAQ; everything else goes through MapDBError.
func faqErr(err error, id int64, op string) error {
	mapped := errs.MapDBError(err)
	if errs.IsNotFound(mapped) || (errs.IsForeignKey(mapped) && strings.Contains(mapped.Error(), "FAQ")) {
		return errs.NotFoundf("FAQ %d not found", id)
	}
	return fmt.Errorf("%s: %w", op, mapped)
}

func upsertTag(ctx context.Context, db pgxutil.DB, name string, now time.Time) (int64, error) {
	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO tags (name, created_at, updated_at) VALUES ($1, $2, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name, now).Scan(&id)
	return id, err
}

func linkTags(ctx context.Context, db pgxutil.DB, faqID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := db.Exec(ctx, `
		INSERT INTO faq_tags (faq_id, tag_id)
		SELECT $1, t FROM unnest($2::bigint[]) AS t
		ON CONFLICT DO NOTHING`, faqID, tagIDs)
	return err
}

func insertVariants(ctx context.Context, db pgxutil.DB, faqID int64, questions []string, now time.Time) error {
	if len(questions) == 0 {
		return nil
	}
	_, err := db.Exec(ctx, `
		INSERT INTO question_variants (faq_id, variant_question, created_at, updated_at)
		SELECT $1, q, $3, $3 FROM unnest($2::text[]) AS q`, faqID, questions, now)
	return err
}

type faqTagRow struct {
	FAQID int64 `db:"faq_id"`
	model.Tag
}

// loadRelations fills Tags and Variants for every FAQ in faqs.
func loadRelations(ctx context.Context, db pgxutil.DB, faqs []model.FAQ) error {
	if len(faqs) == 0 {
		return nil
	}
	ids := make([]int64, len(faqs))
	index := make(map[int64]int, len(faqs))
	for i := range faqs {
		ids[i] = faqs[i].ID
		index[faqs[i].ID] = i
		faqs[i].Tags = []model.Tag{}
		faqs[i].Variants = []model.QuestionVariant{}
	}

	tags, err := pgxutil.CollectAll[faqTagRow](ctx, db, `
		SELECT ft.faq_id, t.id, t.name, t.description, t.created_at, t.updated_at
		FROM faq_tags ft JOIN tags t ON t.id = ft.tag_id
		WHERE ft.faq_id = ANY($1)
		ORDER BY t.name`, ids)
	if err != nil {
		return fmt.Errorf("load faq tags: %w", errs.MapDBError(err))
	}
	for _, t := range tags {
		i := index[t.FAQID]
		faqs[i].Tags = append(faqs[i].Tags, t.Tag)
	}

	variants, err := pgxutil.CollectAll[model.QuestionVariant](ctx, db, `
		SELECT id, faq_id, variant_question, created_at, updated_at
		FROM question_variants
		WHERE faq_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load question variants: %w", errs.MapDBError(err))
	}
	for _, v := range variants {
		i := index[v.FAQID]
		faqs[i].Variants = append(faqs[i].Variants, v)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
