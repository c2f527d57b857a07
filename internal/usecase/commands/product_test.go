//go:build unit

package commands_test

import (
	"context"
	"testing"

	"pos-catalog/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCommands_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("approved immediately becomes revision 1", func(t *testing.T) {
		f := newFixture()

		result, err := f.products.Create(ctx, f.ownerID, productFields("Pale Ale", 650), true)
		require.NoError(t, err)
		require.NotNil(t, result.Revision)
		assert.Equal(t, 1, *result.Revision)

		view, err := f.queries.CurrentProduct(ctx, result.ProductID)
		require.NoError(t, err)
		assert.Equal(t, "Pale Ale", view.Name)
		assert.Equal(t, int64(650), view.PriceCents)
		assert.Equal(t, 1, view.Revision)
		assert.Equal(t, f.ownerID, view.OwnerID)
	})

	t.Run("staged create leaves an invisible draft", func(t *testing.T) {
		f := newFixture()

		result, err := f.products.Create(ctx, f.ownerID, productFields("Draft Beer", 500), false)
		require.NoError(t, err)
		assert.Nil(t, result.Revision)

		_, err = f.queries.CurrentProduct(ctx, result.ProductID)
		assert.ErrorIs(t, err, errs.ErrNoCurrentRevision)

		edit, ok, err := f.queries.PendingProductEdit(ctx, result.ProductID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Draft Beer", edit.Name)
	})

	t.Run("invalid fields create nothing", func(t *testing.T) {
		f := newFixture()

		_, err := f.products.Create(ctx, f.ownerID, productFields("", 500), true)
		assert.Error(t, err)
	})
}

func TestProductCommands_UpdateDirect(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	productID := f.createProduct(t, "Pale Ale")

	revision, err := f.products.UpdateDirect(ctx, productID, productFields("Pale Ale 2.0", 700))
	require.NoError(t, err)
	assert.Equal(t, 2, revision)

	view, err := f.queries.CurrentProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "Pale Ale 2.0", view.Name)
	assert.Equal(t, 2, view.Revision)

	// revision 1 is frozen
	old, err := f.queries.ProductAtRevision(ctx, productID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Pale Ale", old.Name)
	assert.Equal(t, int64(500), old.PriceCents)

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.products.UpdateDirect(ctx, uuid.New(), productFields("Ghost", 100))
		assert.ErrorIs(t, err, errs.ErrHeadNotFound)
	})
}

func TestProductCommands_RevisionNumbersAreGapless(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	productID := f.createProduct(t, "Pale Ale")

	for i := 2; i <= 5; i++ {
		revision, err := f.products.UpdateDirect(ctx, productID, productFields("Pale Ale", int64(i*100)))
		require.NoError(t, err)
		assert.Equal(t, i, revision)
	}

	revs, err := f.queries.ProductRevisions(ctx, productID)
	require.NoError(t, err)
	require.Len(t, revs, 5)
	for i, rev := range revs {
		assert.Equal(t, i+1, rev.Revision)
	}
}

func TestProductCommands_StagedEditWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run("stage then approve", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")

		err := f.products.StageEdit(ctx, productID, productFields("Renamed Ale", 800))
		require.NoError(t, err)

		// the current revision is untouched while the edit is pending
		view, err := f.queries.CurrentProduct(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, "Pale Ale", view.Name)

		revision, err := f.products.ApproveEdit(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, 2, revision)

		view, err = f.queries.CurrentProduct(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Ale", view.Name)

		_, ok, err := f.queries.PendingProductEdit(ctx, productID)
		require.NoError(t, err)
		assert.False(t, ok, "approval clears the pending edit")
	})

	t.Run("second approval has no pending edit", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")

		require.NoError(t, f.products.StageEdit(ctx, productID, productFields("Renamed", 800)))
		_, err := f.products.ApproveEdit(ctx, productID)
		require.NoError(t, err)

		_, err = f.products.ApproveEdit(ctx, productID)
		assert.ErrorIs(t, err, errs.ErrNoPendingEdit)

		revs, err := f.queries.ProductRevisions(ctx, productID)
		require.NoError(t, err)
		assert.Len(t, revs, 2, "a failed approval appends nothing")
	})

	t.Run("a later edit overwrites an earlier unapproved one", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")

		require.NoError(t, f.products.StageEdit(ctx, productID, productFields("First Draft", 600)))
		require.NoError(t, f.products.StageEdit(ctx, productID, productFields("Second Draft", 700)))

		revision, err := f.products.ApproveEdit(ctx, productID)
		require.NoError(t, err)

		view, err := f.queries.ProductAtRevision(ctx, productID, revision)
		require.NoError(t, err)
		assert.Equal(t, "Second Draft", view.Name)
	})

	t.Run("discard drops the edit and appends nothing", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")

		require.NoError(t, f.products.StageEdit(ctx, productID, productFields("Abandoned", 999)))
		require.NoError(t, f.products.DiscardEdit(ctx, productID))

		_, err := f.products.ApproveEdit(ctx, productID)
		assert.ErrorIs(t, err, errs.ErrNoPendingEdit)

		view, err := f.queries.CurrentProduct(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, "Pale Ale", view.Name)
		assert.Equal(t, 1, view.Revision)
	})
}

func TestProductCommands_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("hides the head but keeps revisions readable", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")

		require.NoError(t, f.products.Delete(ctx, productID))

		_, err := f.queries.CurrentProduct(ctx, productID)
		assert.ErrorIs(t, err, errs.ErrHeadNotFound)

		old, err := f.queries.ProductAtRevision(ctx, productID, 1)
		require.NoError(t, err)
		assert.Equal(t, "Pale Ale", old.Name)
	})

	t.Run("rejects further writes", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")
		require.NoError(t, f.products.Delete(ctx, productID))

		_, err := f.products.UpdateDirect(ctx, productID, productFields("Zombie", 100))
		assert.ErrorIs(t, err, errs.ErrHeadDeleted)

		err = f.products.StageEdit(ctx, productID, productFields("Zombie", 100))
		assert.ErrorIs(t, err, errs.ErrHeadDeleted)
	})

	t.Run("repeat delete is a no-op", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")
		require.NoError(t, f.products.Delete(ctx, productID))
		assert.NoError(t, f.products.Delete(ctx, productID))
	})

	t.Run("delete drops a pending edit", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")
		require.NoError(t, f.products.StageEdit(ctx, productID, productFields("Pending", 100)))
		require.NoError(t, f.products.Delete(ctx, productID))

		_, ok, err := f.queries.PendingProductEdit(ctx, productID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestProductCommands_CreateStagedThenApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	result, err := f.products.Create(ctx, f.ownerID, productFields("Draft Lager", 450), false)
	require.NoError(t, err)

	revision, err := f.products.ApproveEdit(ctx, result.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 1, revision)

	view, err := f.queries.CurrentProduct(ctx, result.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Draft Lager", view.Name)
}
