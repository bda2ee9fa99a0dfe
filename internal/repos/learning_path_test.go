package repos

import (
	"context"
	"testing"

	"github.com/learnloop/learnloop-backend/internal/repos/testutil"
)

func TestListModulesDeclaredOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	path := testutil.SeedLearningPath(t, ctx, tx, "Ordering")
	m1 := testutil.SeedModule(t, ctx, tx, "first")
	m2 := testutil.SeedModule(t, ctx, tx, "second")
	m3 := testutil.SeedModule(t, ctx, tx, "third")

	// Attach out of order; positions define the declared order.
	testutil.AttachModuleToPath(t, ctx, tx, path.ID, m3.ID, 2)
	testutil.AttachModuleToPath(t, ctx, tx, path.ID, m1.ID, 0)
	testutil.AttachModuleToPath(t, ctx, tx, path.ID, m2.ID, 1)

	repo := NewLearningPathRepo(tx, log)
	links, err := repo.ListModules(ctx, nil, path.ID)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}
	want := []string{m1.ID.String(), m2.ID.String(), m3.ID.String()}
	for i, link := range links {
		if link.ModuleID.String() != want[i] {
			t.Fatalf("position %d = %s, want %s", i, link.ModuleID, want[i])
		}
	}
}
