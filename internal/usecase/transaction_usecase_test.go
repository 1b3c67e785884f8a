package usecase_test

import (
	"context"
	"testing"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/usecase"
)

// seedMixedLedger gives target three credits and two debits.
func seedMixedLedger(t *testing.T, env *ledgerEnv) (target, other string) {
	t.Helper()
	ctx := context.Background()

	target = env.open(t, "target", "0")
	other = env.open(t, "other", "0")

	for _, amount := range []string{"4", "3", "2"} {
		if _, _, err := env.accounts.GrantShares(ctx, usecase.GrantSharesInput{ToAccountID: target, Amount: dec(amount)}); err != nil {
			t.Fatalf("grant: %v", err)
		}
	}
	for _, amount := range []string{"1", "1.5"} {
		if _, _, err := env.accounts.TransferShares(ctx, usecase.TransferSharesInput{FromAccountID: target, ToAccountID: other, Amount: dec(amount)}); err != nil {
			t.Fatalf("transfer: %v", err)
		}
	}
	return target, other
}

func assertNewestFirst(t *testing.T, rows []*domain.Transaction) {
	t.Helper()
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.CreatedAt.Before(cur.CreatedAt) {
			t.Fatalf("row %d is older than row %d", i-1, i)
		}
		if prev.CreatedAt.Equal(cur.CreatedAt) && prev.ID < cur.ID {
			t.Fatalf("tie between rows %d and %d is not broken by id", i-1, i)
		}
	}
}

func TestTransactionQuery_FilterByKind(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	target, _ := seedMixedLedger(t, env)

	debit := domain.EntryKindDebit
	rows, err := env.queries.QueryTransactionsByAccount(target, &debit).Find(ctx, 50, 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 debits, got %d", len(rows))
	}
	for _, r := range rows {
		if r.Kind != domain.EntryKindDebit || r.AccountID != target {
			t.Fatalf("unexpected row %+v", r)
		}
	}
	assertNewestFirst(t, rows)
	if !rows[0].Amount.Equal(dec("1.5")) {
		t.Fatalf("expected newest debit first, got %s", rows[0].Amount)
	}
}

func TestTransactionQuery_KindFiltersPartitionTheLedger(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	target, _ := seedMixedLedger(t, env)

	all := env.queries.QueryTransactionsByAccount(target, nil)
	credits := all.OfKind(domain.EntryKindCredit)
	debits := all.OfKind(domain.EntryKindDebit)

	if all.Filter().Kind != nil {
		t.Fatal("narrowing must not modify the original query")
	}

	allRows, _ := all.Find(ctx, 100, 0)
	creditRows, _ := credits.Find(ctx, 100, 0)
	debitRows, _ := debits.Find(ctx, 100, 0)

	if len(allRows) != 5 || len(creditRows) != 3 || len(debitRows) != 2 {
		t.Fatalf("unexpected sizes all=%d credits=%d debits=%d", len(allRows), len(creditRows), len(debitRows))
	}

	ids := map[string]bool{}
	for _, r := range allRows {
		ids[r.ID] = true
	}
	for _, r := range append(creditRows, debitRows...) {
		if !ids[r.ID] {
			t.Fatalf("row %s is not part of the unfiltered result", r.ID)
		}
	}
	assertNewestFirst(t, allRows)
}

func TestTransactionQuery_ScopedToAccount(t *testing.T) {
	env := newLedgerEnv(t)
	target, other := seedMixedLedger(t, env)

	rows, err := env.queries.QueryTransactionsByAccount(other, nil).Find(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for other, got %d", len(rows))
	}
	for _, r := range rows {
		if r.AccountID == target {
			t.Fatalf("row %s leaked from another account", r.ID)
		}
	}
}

func TestTransactionQuery_Paginate(t *testing.T) {
	env := newLedgerEnv(t)
	target, _ := seedMixedLedger(t, env)
	q := env.queries.QueryTransactionsByAccount(target, nil)

	first, err := q.Paginate(context.Background(), domain.NewPage(1, 2))
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	last, err := q.Paginate(context.Background(), domain.NewPage(3, 2))
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}

	if first.Total != 5 || len(first.Items) != 2 {
		t.Fatalf("unexpected first page: total=%d items=%d", first.Total, len(first.Items))
	}
	if len(last.Items) != 1 {
		t.Fatalf("expected one row on the last page, got %d", len(last.Items))
	}
	if first.Page.Pages(first.Total) != 3 {
		t.Fatalf("expected 3 pages, got %d", first.Page.Pages(first.Total))
	}
}
