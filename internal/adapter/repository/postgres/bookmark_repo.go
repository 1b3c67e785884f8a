package postgres

import (
	"context"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/infrastructure/postgres/generated"
)

// BookmarkRepository implements usecase.BookmarkRepository.
type BookmarkRepository struct {
	queries *generated.Queries
}

// NewBookmarkRepository creates a new BookmarkRepository.
func NewBookmarkRepository(db generated.DBTX) *BookmarkRepository {
	return &BookmarkRepository{queries: generated.New(db)}
}

// Upsert inserts the bookmark or loads the one already stored for the same user and cause.
func (r *BookmarkRepository) Upsert(ctx context.Context, bookmark *domain.Bookmark) error {
	row, err := r.queries.UpsertBookmark(ctx, generated.UpsertBookmarkParams{
		ID:        bookmark.ID,
		UserID:    bookmark.UserID,
		CauseID:   bookmark.CauseID,
		CreatedAt: timeToPgTimestamptz(bookmark.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(bookmark.UpdatedAt),
	})
	if err != nil {
		return err
	}

	bookmark.ID = row.ID
	bookmark.CreatedAt = row.CreatedAt.Time
	bookmark.UpdatedAt = row.UpdatedAt.Time

	return nil
}

// ListByUser returns the user's bookmarks with their causes, newest first.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Bookmark, error) {
	rows, err := r.queries.ListBookmarksByUser(ctx, generated.ListBookmarksByUserParams{
		UserID: userID,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	bookmarks := make([]*domain.Bookmark, 0, len(rows))
	for _, row := range rows {
		bookmarks = append(bookmarks, &domain.Bookmark{
			ID:      row.ID,
			UserID:  row.UserID,
			CauseID: row.CauseID,
			Cause: &domain.Cause{
				ID:          row.CauseID,
				Name:        row.CauseName,
				Handle:      row.CauseHandle,
				Description: row.CauseDescription,
				AccountID:   row.CauseAccountID,
				CreatedAt:   row.CauseCreatedAt.Time,
				UpdatedAt:   row.CauseUpdatedAt.Time,
			},
			CreatedAt: row.CreatedAt.Time,
			UpdatedAt: row.UpdatedAt.Time,
		})
	}

	return bookmarks, nil
}

// CountByUser returns how many causes the user bookmarked.
func (r *BookmarkRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.queries.CountBookmarksByUser(ctx, userID)
}
