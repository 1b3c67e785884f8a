package usecase

import (
	"context"
	"time"

	"github.com/cofundable/cofundable/internal/domain"
)

// BookmarkUseCase lets users save causes.
type BookmarkUseCase struct {
	bookmarkRepo BookmarkRepository
	causes       CauseFinder
	idGen        IDGenerator
}

// NewBookmarkUseCase creates a new BookmarkUseCase.
func NewBookmarkUseCase(bookmarkRepo BookmarkRepository, causes CauseFinder, idGen IDGenerator) *BookmarkUseCase {
	return &BookmarkUseCase{bookmarkRepo: bookmarkRepo, causes: causes, idGen: idGen}
}

// BookmarkCause saves the cause with handle for userID. Bookmarking the same
// cause again returns the existing bookmark.
func (uc *BookmarkUseCase) BookmarkCause(ctx context.Context, userID, handle string) (*domain.Bookmark, error) {
	cause, err := uc.causes.GetCauseByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bookmark := &domain.Bookmark{
		ID:        uc.idGen.Generate(),
		UserID:    userID,
		CauseID:   cause.ID,
		Cause:     cause,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.bookmarkRepo.Upsert(ctx, bookmark); err != nil {
		return nil, err
	}
	bookmark.Cause = cause

	return bookmark, nil
}

// ListBookmarks lists the causes userID has saved, newest first.
func (uc *BookmarkUseCase) ListBookmarks(ctx context.Context, userID string, page domain.Page) (*Paged[*domain.Bookmark], error) {
	total, err := uc.bookmarkRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookmarks, err := uc.bookmarkRepo.ListByUser(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	return &Paged[*domain.Bookmark]{Items: bookmarks, Total: total, Page: page}, nil
}
