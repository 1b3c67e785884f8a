package postgres

import (
	"context"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/infrastructure/postgres/generated"
	"github.com/cofundable/cofundable/internal/usecase"
)

// TagRepository implements usecase.TagRepository.
type TagRepository struct {
	queries *generated.Queries
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db generated.DBTX) *TagRepository {
	return &TagRepository{queries: generated.New(db)}
}

// Create inserts a tag inside tx.
func (r *TagRepository) Create(ctx context.Context, tx usecase.Transaction, tag *domain.Tag) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateTag(ctx, generated.CreateTagParams{
		ID:          tag.ID,
		Name:        tag.Name,
		Description: stringPtrToText(tag.Description),
		CreatedAt:   timeToPgTimestamptz(tag.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(tag.UpdatedAt),
	})
}

// GetByNames returns the existing tags among names, read inside tx.
func (r *TagRepository) GetByNames(ctx context.Context, tx usecase.Transaction, names []string) ([]domain.Tag, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.GetTagsByNames(ctx, names)
	if err != nil {
		return nil, err
	}

	return rowsToTags(rows), nil
}

// List returns tags ordered by name.
func (r *TagRepository) List(ctx context.Context, limit, offset int) ([]domain.Tag, error) {
	rows, err := r.queries.ListTags(ctx, generated.ListTagsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTags(rows), nil
}

// Count returns the number of tags.
func (r *TagRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountTags(ctx)
}

func rowsToTags(rows []generated.Tag) []domain.Tag {
	tags := make([]domain.Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, domain.Tag{
			ID:          row.ID,
			Name:        row.Name,
			Description: textToStringPtr(row.Description),
			CreatedAt:   row.CreatedAt.Time,
			UpdatedAt:   row.UpdatedAt.Time,
		})
	}

	return tags
}
