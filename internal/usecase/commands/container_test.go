//go:build unit

package commands_test

import (
	"context"
	"testing"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerCommands_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("references existing product revisions", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")

		result, err := f.containers.Create(ctx, f.ownerID, false, commands.ContainerFields{
			Name:     "Beers",
			Products: []catalog.ProductRef{{ProductID: productID, Revision: 1}},
		}, true)
		require.NoError(t, err)
		require.NotNil(t, result.Revision)
		assert.Equal(t, 1, *result.Revision)

		view, err := f.queries.CurrentContainer(ctx, result.ContainerID)
		require.NoError(t, err)
		require.Len(t, view.Products, 1)
		assert.Equal(t, productID, view.Products[0].ProductID)
		assert.Equal(t, 1, view.Products[0].Revision)
	})

	t.Run("rejects a dangling reference and persists nothing", func(t *testing.T) {
		f := newFixture()

		result, err := f.containers.Create(ctx, f.ownerID, false, commands.ContainerFields{
			Name:     "Beers",
			Products: []catalog.ProductRef{{ProductID: uuid.New(), Revision: 1}},
		}, true)
		assert.ErrorIs(t, err, errs.ErrInvalidReference)
		assert.Nil(t, result)
	})

	t.Run("rejects a stale revision reference", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")

		_, err := f.containers.Create(ctx, f.ownerID, false, commands.ContainerFields{
			Name:     "Beers",
			Products: []catalog.ProductRef{{ProductID: productID, Revision: 2}},
		}, true)
		assert.ErrorIs(t, err, errs.ErrInvalidReference)
	})

	t.Run("may pin an older product revision", func(t *testing.T) {
		f := newFixture()
		productID := f.createProduct(t, "Pale Ale")
		_, err := f.products.UpdateDirect(ctx, productID, productFields("Pale Ale 2.0", 700))
		require.NoError(t, err)

		result, err := f.containers.Create(ctx, f.ownerID, false, commands.ContainerFields{
			Name:     "Vintage Shelf",
			Products: []catalog.ProductRef{{ProductID: productID, Revision: 1}},
		}, true)
		require.NoError(t, err)

		view, err := f.queries.CurrentContainer(ctx, result.ContainerID)
		require.NoError(t, err)
		assert.Equal(t, 1, view.Products[0].Revision)
	})
}

func TestContainerCommands_StagedEditValidation(t *testing.T) {
	ctx := context.Background()

	// Staged references are checked only at approval time: a product that
	// appears between staging and approval makes the edit valid.
	t.Run("approval validates against the store at approval time", func(t *testing.T) {
		f := newFixture()
		containerID := f.createContainer(t, "Beers", false, nil)
		productID := f.createProduct(t, "Pale Ale")

		err := f.containers.StageEdit(ctx, containerID, commands.ContainerFields{
			Name:     "Beers",
			Products: []catalog.ProductRef{{ProductID: productID, Revision: 1}},
		})
		require.NoError(t, err)

		revision, err := f.containers.ApproveEdit(ctx, containerID)
		require.NoError(t, err)
		assert.Equal(t, 2, revision)
	})

	t.Run("approval fails on a dangling staged reference", func(t *testing.T) {
		f := newFixture()
		containerID := f.createContainer(t, "Beers", false, nil)

		err := f.containers.StageEdit(ctx, containerID, commands.ContainerFields{
			Name:     "Beers",
			Products: []catalog.ProductRef{{ProductID: uuid.New(), Revision: 1}},
		})
		require.NoError(t, err, "staging does not validate references")

		_, err = f.containers.ApproveEdit(ctx, containerID)
		assert.ErrorIs(t, err, errs.ErrInvalidReference)

		// the failed approval rolled back: edit still pending, no new revision
		_, ok, err := f.queries.PendingContainerEdit(ctx, containerID)
		require.NoError(t, err)
		assert.True(t, ok)

		view, err := f.queries.CurrentContainer(ctx, containerID)
		require.NoError(t, err)
		assert.Equal(t, 1, view.Revision)
	})
}

func TestContainerCommands_UpdateDirectRollsBackOnBadRef(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	productID := f.createProduct(t, "Pale Ale")
	containerID := f.createContainer(t, "Beers", false, []catalog.ProductRef{{ProductID: productID, Revision: 1}})

	_, err := f.containers.UpdateDirect(ctx, containerID, commands.ContainerFields{
		Name:     "Beers",
		Products: []catalog.ProductRef{{ProductID: uuid.New(), Revision: 3}},
	})
	assert.ErrorIs(t, err, errs.ErrInvalidReference)

	view, err := f.queries.CurrentContainer(ctx, containerID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Revision)
	assert.Equal(t, productID, view.Products[0].ProductID)
}

func TestPointOfSaleCommands_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("references existing container revisions", func(t *testing.T) {
		f := newFixture()
		containerID := f.createContainer(t, "Beers", false, nil)

		posID := f.createPointOfSale(t, "Main Bar", []catalog.ContainerRef{{ContainerID: containerID, Revision: 1}})

		view, err := f.queries.CurrentPointOfSale(ctx, posID)
		require.NoError(t, err)
		require.Len(t, view.Containers, 1)
		assert.Equal(t, containerID, view.Containers[0].ContainerID)
	})

	t.Run("rejects a dangling container reference", func(t *testing.T) {
		f := newFixture()

		_, err := f.pointsOfSale.Create(ctx, f.ownerID, posFields("Main Bar", []catalog.ContainerRef{
			{ContainerID: uuid.New(), Revision: 1},
		}), true)
		assert.ErrorIs(t, err, errs.ErrInvalidReference)
	})

	t.Run("rejects an inverted validity window", func(t *testing.T) {
		f := newFixture()
		fields := posFields("Main Bar", nil)
		fields.StartsAt, fields.EndsAt = fields.EndsAt, fields.StartsAt

		_, err := f.pointsOfSale.Create(ctx, f.ownerID, fields, true)
		assert.Error(t, err)
	})
}

func TestPointOfSaleCommands_StagedEditWorkflow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	containerID := f.createContainer(t, "Beers", false, nil)
	posID := f.createPointOfSale(t, "Main Bar", []catalog.ContainerRef{{ContainerID: containerID, Revision: 1}})

	fields := posFields("Night Bar", []catalog.ContainerRef{{ContainerID: containerID, Revision: 1}})
	fields.RequiresAuthentication = true
	require.NoError(t, f.pointsOfSale.StageEdit(ctx, posID, fields))

	view, err := f.queries.CurrentPointOfSale(ctx, posID)
	require.NoError(t, err)
	assert.Equal(t, "Main Bar", view.Name)

	revision, err := f.pointsOfSale.ApproveEdit(ctx, posID)
	require.NoError(t, err)
	assert.Equal(t, 2, revision)

	view, err = f.queries.CurrentPointOfSale(ctx, posID)
	require.NoError(t, err)
	assert.Equal(t, "Night Bar", view.Name)
	assert.True(t, view.RequiresAuthentication)

	_, err = f.pointsOfSale.ApproveEdit(ctx, posID)
	assert.ErrorIs(t, err, errs.ErrNoPendingEdit)
}
