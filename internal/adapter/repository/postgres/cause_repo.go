package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/infrastructure/postgres/generated"
	"github.com/cofundable/cofundable/internal/usecase"
)

// CauseRepository implements usecase.CauseRepository.
type CauseRepository struct {
	queries *generated.Queries
}

// NewCauseRepository creates a new CauseRepository.
func NewCauseRepository(db generated.DBTX) *CauseRepository {
	return &CauseRepository{queries: generated.New(db)}
}

// Create inserts the cause row. Tags are attached separately.
func (r *CauseRepository) Create(ctx context.Context, tx usecase.Transaction, cause *domain.Cause) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	err = queries.CreateCause(ctx, generated.CreateCauseParams{
		ID:          cause.ID,
		Name:        cause.Name,
		Handle:      cause.Handle,
		Description: cause.Description,
		AccountID:   cause.AccountID,
		CreatedAt:   timeToPgTimestamptz(cause.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(cause.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrHandleTaken
	}

	return err
}

// AttachTags links tags to the cause, keeping their order.
func (r *CauseRepository) AttachTags(ctx context.Context, tx usecase.Transaction, causeID string, tagIDs []string) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	for i, tagID := range tagIDs {
		if err := queries.AttachCauseTag(ctx, generated.AttachCauseTagParams{
			CauseID:  causeID,
			TagID:    tagID,
			Position: int32(i),
		}); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a cause with its tags.
func (r *CauseRepository) GetByID(ctx context.Context, id string) (*domain.Cause, error) {
	row, err := r.queries.GetCauseByID(ctx, id)
	if err != nil {
		return nil, causeErr(err)
	}

	return r.withTags(ctx, row)
}

// GetByHandle retrieves a cause with its tags.
func (r *CauseRepository) GetByHandle(ctx context.Context, handle string) (*domain.Cause, error) {
	row, err := r.queries.GetCauseByHandle(ctx, handle)
	if err != nil {
		return nil, causeErr(err)
	}

	return r.withTags(ctx, row)
}

// List returns causes newest first.
func (r *CauseRepository) List(ctx context.Context, limit, offset int) ([]*domain.Cause, error) {
	rows, err := r.queries.ListCauses(ctx, generated.ListCausesParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	causes := make([]*domain.Cause, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		causes = append(causes, rowToCause(row))
		ids = append(ids, row.ID)
	}

	if len(ids) == 0 {
		return causes, nil
	}

	tags, err := r.tagsByCause(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range causes {
		c.Tags = tags[c.ID]
	}

	return causes, nil
}

// Count returns the number of causes.
func (r *CauseRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountCauses(ctx)
}

// Delete removes the cause. Its tag links and bookmarks go with it.
func (r *CauseRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteCause(ctx, id)
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrCauseNotFound
	}

	return nil
}

func (r *CauseRepository) withTags(ctx context.Context, row generated.Cause) (*domain.Cause, error) {
	cause := rowToCause(row)

	tags, err := r.tagsByCause(ctx, []string{row.ID})
	if err != nil {
		return nil, err
	}

	cause.Tags = tags[row.ID]

	return cause, nil
}

func (r *CauseRepository) tagsByCause(ctx context.Context, causeIDs []string) (map[string][]domain.Tag, error) {
	rows, err := r.queries.GetTagsByCauseIDs(ctx, causeIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]domain.Tag, len(causeIDs))
	for _, row := range rows {
		out[row.CauseID] = append(out[row.CauseID], domain.Tag{
			ID:          row.ID,
			Name:        row.Name,
			Description: textToStringPtr(row.Description),
			CreatedAt:   row.CreatedAt.Time,
			UpdatedAt:   row.UpdatedAt.Time,
		})
	}

	return out, nil
}

func causeErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCauseNotFound
	}

	return err
}

func rowToCause(row generated.Cause) *domain.Cause {
	return &domain.Cause{
		ID:          row.ID,
		Name:        row.Name,
		Handle:      row.Handle,
		Description: row.Description,
		AccountID:   row.AccountID,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
