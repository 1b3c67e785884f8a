package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cofundable/cofundable/internal/domain"
)

// CauseUseCase handles causes and their tags.
type CauseUseCase struct {
	txManager  TransactionManager
	causeRepo  CauseRepository
	tags       *TagUseCase
	accounts   AccountOpener
	outboxRepo OutboxRepository
	idGen      IDGenerator
	cache      Cache
	cacheTTL   time.Duration
}

// NewCauseUseCase creates a new CauseUseCase. cache may be nil.
func NewCauseUseCase(
	txManager TransactionManager,
	causeRepo CauseRepository,
	tags *TagUseCase,
	accounts AccountOpener,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	cacheTTL time.Duration,
) *CauseUseCase {
	if cacheTTL <= 0 {
		cacheTTL = CauseCacheTTL
	}
	return &CauseUseCase{
		txManager:  txManager,
		causeRepo:  causeRepo,
		tags:       tags,
		accounts:   accounts,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// CreateCauseInput represents input for creating a cause.
type CreateCauseInput struct {
	Name        string
	Handle      string
	Description string
	Tags        []string
}

// CreateCause creates a cause, its account and any missing tags in one unit of work.
func (uc *CauseUseCase) CreateCause(ctx context.Context, input CreateCauseInput) (*domain.Cause, error) {
	handle := strings.TrimSpace(input.Handle)
	if err := domain.ValidateHandle(handle); err != nil {
		return nil, err
	}
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accounts.OpenAccount(ctx, tx, handle)
	if err != nil {
		return nil, err
	}

	tags, err := uc.tags.GetOrCreateTagsByName(ctx, tx, input.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cause := &domain.Cause{
		ID:          uc.idGen.Generate(),
		Name:        strings.TrimSpace(input.Name),
		Handle:      handle,
		Description: input.Description,
		AccountID:   account.ID,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.causeRepo.Create(ctx, tx, cause); err != nil {
		return nil, err
	}

	if len(tags) > 0 {
		tagIDs := make([]string, 0, len(tags))
		for _, t := range tags {
			tagIDs = append(tagIDs, t.ID)
		}
		if err := uc.causeRepo.AttachTags(ctx, tx, cause.ID, tagIDs); err != nil {
			return nil, err
		}
	}

	event := domain.NewOwnerCreatedEvent(
		uc.idGen.Generate(),
		domain.AggregateTypeCause, domain.EventTypeCauseCreated,
		cause.ID, cause.Handle, cause.AccountID, now,
	)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return cause, nil
}

// GetCause retrieves a cause by ID.
func (uc *CauseUseCase) GetCause(ctx context.Context, id string) (*domain.Cause, error) {
	return uc.causeRepo.GetByID(ctx, id)
}

// GetCauseByHandle retrieves a cause by handle, remembering the handle's ID.
func (uc *CauseUseCase) GetCauseByHandle(ctx context.Context, handle string) (*domain.Cause, error) {
	key := causeHandleKey(handle)

	if uc.cache != nil {
		id, err := uc.cache.Get(ctx, key)
		switch {
		case err == nil:
			cause, err := uc.causeRepo.GetByID(ctx, id)
			if err == nil && cause.Handle == handle {
				return cause, nil
			}
			if err != nil && !errors.Is(err, domain.ErrCauseNotFound) {
				return nil, err
			}
			uc.forget(ctx, handle)
		case !errors.Is(err, ErrCacheMiss):
			log.Ctx(ctx).Warn().Err(err).Str("handle", handle).Msg("cause cache read failed")
		}
	}

	cause, err := uc.causeRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, cause.ID, uc.cacheTTL); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("handle", handle).Msg("cause cache write failed")
		}
	}

	return cause, nil
}

// ListCauses lists causes newest first.
func (uc *CauseUseCase) ListCauses(ctx context.Context, page domain.Page) (*Paged[*domain.Cause], error) {
	total, err := uc.causeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	causes, err := uc.causeRepo.List(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	return &Paged[*domain.Cause]{Items: causes, Total: total, Page: page}, nil
}

// DeleteCause removes a cause. Its bookmarks go with it.
func (uc *CauseUseCase) DeleteCause(ctx context.Context, id string) error {
	cause, err := uc.causeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.causeRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.forget(ctx, cause.Handle)
	return nil
}

func (uc *CauseUseCase) forget(ctx context.Context, handle string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, causeHandleKey(handle)); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("handle", handle).Msg("cause cache delete failed")
	}
}

func causeHandleKey(handle string) string {
	return "cause:handle:" + handle
}
