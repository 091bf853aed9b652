package tickets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "tickets.json"))
}

func TestFileStoreSequentialIDs(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, CreateRequest{UserID: "u1", Message: "help", Category: CategoryUnansweredFAQ})
	require.NoError(t, err)
	second, err := store.Create(ctx, CreateRequest{UserID: "u2", Message: "help again", Category: CategoryNonsenseQuery})
	require.NoError(t, err)

	assert.Equal(t, "TKT-0001", first.ID)
	assert.Equal(t, "TKT-0002", second.ID)
	assert.Equal(t, StatusOpen, first.Status)
}

func TestFileStoreCounterSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	ctx := context.Background()

	store := NewFileStore(path)
	_, err := store.Create(ctx, CreateRequest{UserID: "u1", Message: "first", Category: CategoryToolError})
	require.NoError(t, err)

	reopened := NewFileStore(path)
	ticket, err := reopened.Create(ctx, CreateRequest{UserID: "u2", Message: "second", Category: CategoryToolError})
	require.NoError(t, err)
	assert.Equal(t, "TKT-0002", ticket.ID)
}

func TestFileStoreLifecycle(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	ticket, err := store.Create(ctx, CreateRequest{UserID: "u1", Message: "refund please", Category: CategoryRefundInquiry})
	require.NoError(t, err)

	require.NoError(t, store.Assign(ctx, ticket.ID, "sam"))
	require.NoError(t, store.Resolve(ctx, ticket.ID))

	got, err := store.Get(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "sam", got.AssignedTo)
	assert.Equal(t, StatusResolved, got.Status)
	require.NotNil(t, got.ResolvedAt)

	// Resolving twice is rejected.
	assert.Error(t, store.Resolve(ctx, ticket.ID))
}

func TestFileStoreListFilters(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	a, err := store.Create(ctx, CreateRequest{UserID: "u1", Message: "a", Category: CategoryUnansweredFAQ})
	require.NoError(t, err)
	_, err = store.Create(ctx, CreateRequest{UserID: "u2", Message: "b", Category: CategoryRefundViolation})
	require.NoError(t, err)
	require.NoError(t, store.Resolve(ctx, a.ID))

	open, err := store.List(ctx, ListFilter{Status: StatusOpen})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, CategoryRefundViolation, open[0].Category)

	faq, err := store.List(ctx, ListFilter{Category: CategoryUnansweredFAQ})
	require.NoError(t, err)
	require.Len(t, faq, 1)
	assert.Equal(t, a.ID, faq[0].ID)

	all, err := store.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFileStoreGetMissing(t *testing.T) {
	store := newTestFileStore(t)
	_, err := store.Get(context.Background(), "TKT-9999")
	assert.ErrorIs(t, err, ErrNotFound)
}
