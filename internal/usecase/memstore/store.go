// Package memstore is an in-memory implementation of the usecase
// repositories. Writes made through a transaction are staged and applied on
// Commit, and FOR UPDATE reads hold a store-wide lock until the transaction
// ends, so it behaves like a single serialized database in tests.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/usecase"
)

// ErrTxDone is returned when a finished transaction is used.
var ErrTxDone = errors.New("memstore: transaction already finished")

// Store holds committed state.
type Store struct {
	rowLock sync.Mutex
	mu      sync.RWMutex

	accounts  map[string]domain.Account
	entries   map[string]domain.Transaction
	users     map[string]domain.User
	causes    map[string]domain.Cause
	causeTags map[string][]string
	tags      map[string]domain.Tag
	bookmarks map[string]domain.Bookmark
	outbox    map[string]domain.OutboxEvent
	order     []string

	// OnCreateEntry, when set, runs before an entry is staged and can fail it.
	OnCreateEntry func(entry *domain.Transaction) error

	seq atomic.Int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		accounts:  map[string]domain.Account{},
		entries:   map[string]domain.Transaction{},
		users:     map[string]domain.User{},
		causes:    map[string]domain.Cause{},
		causeTags: map[string][]string{},
		tags:      map[string]domain.Tag{},
		bookmarks: map[string]domain.Bookmark{},
		outbox:    map[string]domain.OutboxEvent{},
	}
}

// Generate returns sortable sequential IDs.
func (s *Store) Generate() string {
	return fmt.Sprintf("id-%08d", s.seq.Add(1))
}

// SeedAccount stores an account directly, bypassing transactions.
func (s *Store) SeedAccount(a domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = a
}

// Account returns the committed copy of an account.
func (s *Store) Account(id string) (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	return a, ok
}

// Entries returns every committed entry in insertion order.
func (s *Store) Entries() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// Events returns committed outbox events.
func (s *Store) Events() []domain.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.OutboxEvent, 0, len(s.outbox))
	for _, e := range s.outbox {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Tx is a staged unit of work.
type Tx struct {
	store  *Store
	ops    []func()
	locked bool
	done   bool
}

// Begin implements usecase.TransactionManager.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &Tx{store: s}, nil
}

// Commit applies staged writes.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.store.mu.Lock()
	for _, op := range t.ops {
		op()
	}
	t.store.mu.Unlock()
	t.finish()
	return nil
}

// Rollback drops staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.ops = nil
	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.done = true
	if t.locked {
		t.locked = false
		t.store.rowLock.Unlock()
	}
}

func stage(tx usecase.Transaction, op func()) error {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return errors.New("memstore: foreign transaction")
	}
	if t.done {
		return ErrTxDone
	}
	t.ops = append(t.ops, op)
	return nil
}

// Accounts returns an AccountRepository view.
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{s} }

// EntryRepository returns a TransactionRepository view.
func (s *Store) EntryRepository() *EntryRepository { return &EntryRepository{s} }

// Ledger returns a LedgerRepository view.
func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{s} }

// Users returns a UserRepository view.
func (s *Store) Users() *UserRepository { return &UserRepository{s} }

// Causes returns a CauseRepository view.
func (s *Store) Causes() *CauseRepository { return &CauseRepository{s} }

// Tags returns a TagRepository view.
func (s *Store) Tags() *TagRepository { return &TagRepository{s} }

// Bookmarks returns a BookmarkRepository view.
func (s *Store) Bookmarks() *BookmarkRepository { return &BookmarkRepository{s} }

// Outbox returns an OutboxRepository view.
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{s} }

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct{ s *Store }

func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	a := *account
	return stage(tx, func() { r.s.accounts[a.ID] = a })
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, &domain.AccountNotFoundError{ID: id}
	}
	return &a, nil
}

func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, errors.New("memstore: foreign transaction")
	}
	if !t.locked {
		r.s.rowLock.Lock()
		t.locked = true
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.s.accounts[id]; ok {
			cp := a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error {
	r.s.mu.RLock()
	current, ok := r.s.accounts[id]
	r.s.mu.RUnlock()
	if !ok {
		return domain.ErrAccountNotFound
	}
	if current.Version != version {
		return domain.ErrVersionConflict
	}
	return stage(tx, func() {
		a := r.s.accounts[id]
		a.Balance = balance
		a.Version = version + 1
		a.UpdatedAt = updatedAt
		r.s.accounts[id] = a
	})
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0, len(r.s.accounts))
	for id := range r.s.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := []*domain.Account{}
	for _, id := range window(ids, limit, offset) {
		a := r.s.accounts[id]
		out = append(out, &a)
	}
	return out, nil
}

// EntryRepository implements usecase.TransactionRepository.
type EntryRepository struct{ s *Store }

func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Transaction) error {
	if r.s.OnCreateEntry != nil {
		if err := r.s.OnCreateEntry(entry); err != nil {
			return err
		}
	}
	e := *entry
	return stage(tx, func() {
		r.s.entries[e.ID] = e
		r.s.order = append(r.s.order, e.ID)
	})
}

func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.entries[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &e, nil
}

func (r *EntryRepository) matching(filter domain.TransactionFilter) []domain.Transaction {
	var out []domain.Transaction
	for _, id := range r.s.order {
		e := r.s.entries[id]
		if e.AccountID != filter.AccountID {
			continue
		}
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *EntryRepository) Find(ctx context.Context, filter domain.TransactionFilter, limit, offset int) ([]*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.matching(filter)
	out := []*domain.Transaction{}
	for _, e := range window(rows, limit, offset) {
		e := e
		out = append(out, &e)
	}
	return out, nil
}

func (r *EntryRepository) Count(ctx context.Context, filter domain.TransactionFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.matching(filter))), nil
}

func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range r.s.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.Signed())
		}
	}
	return sum, nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct{ s *Store }

func (r *LedgerRepository) Totals(ctx context.Context) (usecase.LedgerTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t := usecase.LedgerTotals{TotalBalance: decimal.Zero, TotalCredits: decimal.Zero, TotalDebits: decimal.Zero}
	for _, a := range r.s.accounts {
		t.TotalBalance = t.TotalBalance.Add(a.Balance)
	}
	for _, e := range r.s.entries {
		if e.Kind == domain.EntryKindCredit {
			t.TotalCredits = t.TotalCredits.Add(e.Amount)
		} else {
			t.TotalDebits = t.TotalDebits.Add(e.Amount)
		}
		if e.MatchEntryID == nil {
			t.Unmatched++
		}
	}
	return t, nil
}

// UserRepository implements usecase.UserRepository.
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, tx usecase.Transaction, user *domain.User) error {
	if _, err := r.GetByHandle(ctx, user.Handle); err == nil {
		return domain.ErrHandleTaken
	}
	u := *user
	return stage(tx, func() { r.s.users[u.ID] = u })
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Handle == handle {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	for k, b := range r.s.bookmarks {
		if b.UserID == id {
			delete(r.s.bookmarks, k)
		}
	}
	return nil
}

// CauseRepository implements usecase.CauseRepository.
type CauseRepository struct{ s *Store }

func (r *CauseRepository) Create(ctx context.Context, tx usecase.Transaction, cause *domain.Cause) error {
	if _, err := r.GetByHandle(ctx, cause.Handle); err == nil {
		return domain.ErrHandleTaken
	}
	c := *cause
	c.Tags = nil
	return stage(tx, func() { r.s.causes[c.ID] = c })
}

func (r *CauseRepository) AttachTags(ctx context.Context, tx usecase.Transaction, causeID string, tagIDs []string) error {
	ids := append([]string(nil), tagIDs...)
	return stage(tx, func() { r.s.causeTags[causeID] = ids })
}

func (r *CauseRepository) load(c domain.Cause) *domain.Cause {
	for _, id := range r.s.causeTags[c.ID] {
		c.Tags = append(c.Tags, r.s.tags[id])
	}
	return &c
}

func (r *CauseRepository) GetByID(ctx context.Context, id string) (*domain.Cause, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.causes[id]
	if !ok {
		return nil, domain.ErrCauseNotFound
	}
	return r.load(c), nil
}

func (r *CauseRepository) GetByHandle(ctx context.Context, handle string) (*domain.Cause, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.causes {
		if c.Handle == handle {
			return r.load(c), nil
		}
	}
	return nil, domain.ErrCauseNotFound
}

func (r *CauseRepository) List(ctx context.Context, limit, offset int) ([]*domain.Cause, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0, len(r.s.causes))
	for id := range r.s.causes {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	out := []*domain.Cause{}
	for _, id := range window(ids, limit, offset) {
		out = append(out, r.load(r.s.causes[id]))
	}
	return out, nil
}

func (r *CauseRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.causes)), nil
}

func (r *CauseRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.causes[id]; !ok {
		return domain.ErrCauseNotFound
	}
	delete(r.s.causes, id)
	delete(r.s.causeTags, id)
	for k, b := range r.s.bookmarks {
		if b.CauseID == id {
			delete(r.s.bookmarks, k)
		}
	}
	return nil
}

// TagRepository implements usecase.TagRepository.
type TagRepository struct{ s *Store }

func (r *TagRepository) Create(ctx context.Context, tx usecase.Transaction, tag *domain.Tag) error {
	t := *tag
	return stage(tx, func() { r.s.tags[t.ID] = t })
}

func (r *TagRepository) GetByNames(ctx context.Context, tx usecase.Transaction, names []string) ([]domain.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	var out []domain.Tag
	for _, t := range r.s.tags {
		if want[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TagRepository) List(ctx context.Context, limit, offset int) ([]domain.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]domain.Tag, 0, len(r.s.tags))
	for _, t := range r.s.tags {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return window(all, limit, offset), nil
}

func (r *TagRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.tags)), nil
}

// BookmarkRepository implements usecase.BookmarkRepository.
type BookmarkRepository struct{ s *Store }

func bookmarkKey(userID, causeID string) string { return userID + "/" + causeID }

func (r *BookmarkRepository) Upsert(ctx context.Context, bookmark *domain.Bookmark) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := bookmarkKey(bookmark.UserID, bookmark.CauseID)
	if existing, ok := r.s.bookmarks[key]; ok {
		*bookmark = existing
		return nil
	}
	b := *bookmark
	b.Cause = nil
	r.s.bookmarks[key] = b
	return nil
}

func (r *BookmarkRepository) byUser(userID string) []domain.Bookmark {
	var out []domain.Bookmark
	for _, b := range r.s.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Bookmark, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Bookmark{}
	for _, b := range window(r.byUser(userID), limit, offset) {
		b := b
		if c, ok := r.s.causes[b.CauseID]; ok {
			b.Cause = &c
		}
		out = append(out, &b)
	}
	return out, nil
}

func (r *BookmarkRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.byUser(userID))), nil
}

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct{ s *Store }

func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	e := *event
	return stage(tx, func() { r.s.outbox[e.ID] = e })
}

func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	var out []*domain.OutboxEvent
	for _, e := range r.s.Events() {
		if !e.Published && len(out) < limit {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.outbox[id]
	if !ok {
		return errors.New("memstore: event " + strconv.Quote(id) + " not found")
	}
	e.Published = true
	e.PublishedAt = &publishedAt
	r.s.outbox[id] = e
	return nil
}

func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.outbox {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			delete(r.s.outbox, id)
		}
	}
	return nil
}

// PassthroughRetrier runs the operation once.
type PassthroughRetrier struct{}

func (PassthroughRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

func window[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
