package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cofundable/cofundable/internal/domain"
)

// TagUseCase resolves tag names to stored tags.
type TagUseCase struct {
	tagRepo TagRepository
	idGen   IDGenerator
}

// NewTagUseCase creates a new TagUseCase.
func NewTagUseCase(tagRepo TagRepository, idGen IDGenerator) *TagUseCase {
	return &TagUseCase{tagRepo: tagRepo, idGen: idGen}
}

// GetOrCreateTagsByName returns one tag per distinct name, creating the ones
// that do not exist yet through tx. Order follows the first occurrence in names.
func (uc *TagUseCase) GetOrCreateTagsByName(ctx context.Context, tx Transaction, names []string) ([]domain.Tag, error) {
	wanted := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		if err := domain.ValidateName(n); err != nil {
			return nil, err
		}
		seen[n] = true
		wanted = append(wanted, n)
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	existing, err := uc.tagRepo.GetByNames(ctx, tx, wanted)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]domain.Tag, len(existing))
	for _, t := range existing {
		byName[t.Name] = t
	}

	now := time.Now().UTC()
	tags := make([]domain.Tag, 0, len(wanted))
	for _, name := range wanted {
		tag, ok := byName[name]
		if !ok {
			tag = domain.Tag{ID: uc.idGen.Generate(), Name: name, CreatedAt: now, UpdatedAt: now}
			if err := uc.tagRepo.Create(ctx, tx, &tag); err != nil {
				return nil, err
			}
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// ListTags lists tags by name.
func (uc *TagUseCase) ListTags(ctx context.Context, page domain.Page) (*Paged[domain.Tag], error) {
	total, err := uc.tagRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	tags, err := uc.tagRepo.List(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	return &Paged[domain.Tag]{Items: tags, Total: total, Page: page}, nil
}
