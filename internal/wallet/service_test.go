package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/hanan-raza/mini-revolut/internal/identity"
	"github.com/hanan-raza/mini-revolut/internal/ledger"
)

func TestDashboardComposition(t *testing.T) {
	ctx := context.Background()
	mem := ledger.NewMemory()
	users := identity.NewMemoryRepository()
	ids := identity.NewService(users, mem, 100_000)
	svc := NewService(users, mem, mem)

	user, err := ids.Register(ctx, identity.RegisterInput{FullName: "Alice Martin", Email: "alice@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	engine := ledger.NewEngine(mem, mem, mem)
	if _, _, err := engine.Deposit(ctx, user.ID, 5_000); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, _, err := engine.Withdraw(ctx, user.ID, 2_000); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	dash, err := svc.Dashboard(ctx, user.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.User.FullName != "Alice Martin" || dash.User.Email != "alice@example.com" {
		t.Fatalf("unexpected summary: %+v", dash.User)
	}
	if dash.Balance != 103_000 {
		t.Fatalf("expected balance 103000, got %d", dash.Balance)
	}
	if len(dash.Recent) != 2 {
		t.Fatalf("expected 2 recent transactions, got %d", len(dash.Recent))
	}
	if dash.Recent[0].Kind != ledger.KindWithdrawal {
		t.Fatalf("recent activity not newest first: %+v", dash.Recent)
	}
}

func TestDashboardUnknownUser(t *testing.T) {
	mem := ledger.NewMemory()
	svc := NewService(identity.NewMemoryRepository(), mem, mem)

	if _, err := svc.Dashboard(context.Background(), "nobody"); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected identity.ErrNotFound, got %v", err)
	}
}
