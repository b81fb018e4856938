package ledger

import (
	"context"
	"testing"
)

func seedDeposits(t *testing.T, mem *Memory, accountID string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		if _, err := mem.Append(ctx, Transaction{
			Kind:     KindDeposit,
			Receiver: accountID,
			Amount:   1_000,
			Status:   StatusCompleted,
		}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
}

func TestMemoryQueryPagination(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	seedDeposits(t, mem, "alice", 25)

	var (
		seen   = map[string]bool{}
		cursor string
		pages  int
	)
	for {
		page, err := mem.Query(ctx, Query{AccountID: "alice", Limit: 10, Cursor: cursor})
		if err != nil {
			t.Fatalf("query page %d: %v", pages, err)
		}
		for i := 1; i < len(page.Transactions); i++ {
			prev, cur := page.Transactions[i-1], page.Transactions[i]
			if cur.CreatedAt.After(prev.CreatedAt) {
				t.Fatalf("page %d out of order at %d", pages, i)
			}
			if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID > prev.ID {
				t.Fatalf("page %d tie broken wrongly at %d", pages, i)
			}
		}
		for _, tx := range page.Transactions {
			if seen[tx.ID] {
				t.Fatalf("transaction %s returned twice", tx.ID)
			}
			seen[tx.ID] = true
		}
		pages++
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	if len(seen) != 25 {
		t.Fatalf("expected 25 distinct transactions, got %d", len(seen))
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
}

func TestMemoryQueryStableUnderConcurrentAppends(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	seedDeposits(t, mem, "alice", 15)

	first, err := mem.Query(ctx, Query{AccountID: "alice", Limit: 5})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	original := map[string]bool{}
	for _, tx := range first.Transactions {
		original[tx.ID] = true
	}

	// Entries appended after a page was fetched sort above the cursor and must
	// not shift or duplicate what follow-up pages return.
	seedDeposits(t, mem, "alice", 5)

	cursor := first.NextCursor
	for cursor != "" {
		page, err := mem.Query(ctx, Query{AccountID: "alice", Limit: 5, Cursor: cursor})
		if err != nil {
			t.Fatalf("follow-up page: %v", err)
		}
		for _, tx := range page.Transactions {
			if original[tx.ID] {
				t.Fatalf("transaction %s duplicated across pages", tx.ID)
			}
			original[tx.ID] = true
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	if len(original) != 15 {
		t.Fatalf("expected the original 15 transactions exactly once, got %d", len(original))
	}
}

func TestMemoryQueryExactLimitHasNoMore(t *testing.T) {
	mem := NewMemory()
	seedDeposits(t, mem, "alice", 10)

	page, err := mem.Query(context.Background(), Query{AccountID: "alice", Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(page.Transactions) != 10 {
		t.Fatalf("expected 10 transactions, got %d", len(page.Transactions))
	}
	if page.HasMore {
		t.Fatalf("expected HasMore=false at exact limit")
	}
}

func TestMemoryQueryLimitClamping(t *testing.T) {
	mem := NewMemory()
	seedDeposits(t, mem, "alice", 60)
	ctx := context.Background()

	page, err := mem.Query(ctx, Query{AccountID: "alice"})
	if err != nil {
		t.Fatalf("default limit query: %v", err)
	}
	if len(page.Transactions) != DefaultPageSize {
		t.Fatalf("expected default page size %d, got %d", DefaultPageSize, len(page.Transactions))
	}

	page, err = mem.Query(ctx, Query{AccountID: "alice", Limit: 500})
	if err != nil {
		t.Fatalf("oversized limit query: %v", err)
	}
	if len(page.Transactions) != MaxPageSize {
		t.Fatalf("expected clamp to %d, got %d", MaxPageSize, len(page.Transactions))
	}
}

func TestMemoryQueryMalformedCursorStartsFromTop(t *testing.T) {
	mem := NewMemory()
	seedDeposits(t, mem, "alice", 5)

	fresh, err := mem.Query(context.Background(), Query{AccountID: "alice"})
	if err != nil {
		t.Fatalf("fresh query: %v", err)
	}
	garbled, err := mem.Query(context.Background(), Query{AccountID: "alice", Cursor: "@@not-a-cursor@@"})
	if err != nil {
		t.Fatalf("garbled cursor query: %v", err)
	}
	if len(garbled.Transactions) != len(fresh.Transactions) {
		t.Fatalf("malformed cursor changed result: %d vs %d", len(garbled.Transactions), len(fresh.Transactions))
	}
	if garbled.Transactions[0].ID != fresh.Transactions[0].ID {
		t.Fatalf("malformed cursor did not restart from newest entry")
	}
}

func TestMemoryQueryFilters(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	mem.SeedBalance("alice", 10_000)
	mem.SeedBalance("bob", 0)

	mem.Append(ctx, Transaction{Kind: KindDeposit, Receiver: "alice", Amount: 500, Status: StatusCompleted})
	mem.Append(ctx, Transaction{Kind: KindWithdrawal, Sender: "alice", Amount: 200, Status: StatusCompleted})
	mem.Transfer(ctx, "alice", "bob", 300)
	mem.Transfer(ctx, "bob", "alice", 100)

	page, err := mem.Query(ctx, Query{AccountID: "alice", Kind: KindTransfer})
	if err != nil {
		t.Fatalf("kind filter: %v", err)
	}
	if len(page.Transactions) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(page.Transactions))
	}

	page, err = mem.Query(ctx, Query{AccountID: "alice", Direction: DirectionSent})
	if err != nil {
		t.Fatalf("sent filter: %v", err)
	}
	for _, tx := range page.Transactions {
		if tx.Sender != "alice" {
			t.Fatalf("sent filter leaked %+v", tx)
		}
	}
	if len(page.Transactions) != 2 {
		t.Fatalf("expected withdrawal and outgoing transfer, got %d", len(page.Transactions))
	}

	page, err = mem.Query(ctx, Query{AccountID: "alice", Direction: DirectionReceived, Kind: KindTransfer})
	if err != nil {
		t.Fatalf("combined filter: %v", err)
	}
	if len(page.Transactions) != 1 || page.Transactions[0].Sender != "bob" {
		t.Fatalf("expected only the incoming transfer, got %+v", page.Transactions)
	}
}
