//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/infra/memory"
	"pos-catalog/internal/pkg/clock"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/pkg/metrics"
	"pos-catalog/internal/usecase/commands"
	"pos-catalog/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	products     commands.ProductCommands
	containers   commands.ContainerCommands
	pointsOfSale commands.PointOfSaleCommands
	queries      queries.CatalogQueries
	ownerID      uuid.UUID
}

func newFixture() *fixture {
	store := memory.NewStore()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	rec := metrics.NewRecorder(prometheus.NewRegistry())

	return &fixture{
		products:     commands.NewProductCommands(store, clk, rec),
		containers:   commands.NewContainerCommands(store, clk, rec),
		pointsOfSale: commands.NewPointOfSaleCommands(store, clk, rec),
		queries:      queries.NewCatalogQueries(store, store, store),
		ownerID:      uuid.New(),
	}
}

func (f *fixture) productFields(name string) commands.ProductFields {
	return commands.ProductFields{
		Name:       name,
		PriceCents: 500,
		VATGroupID: uuid.New(),
		CategoryID: uuid.New(),
	}
}

func TestCatalogQueries_CurrentProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown head", func(t *testing.T) {
		f := newFixture()
		_, err := f.queries.CurrentProduct(ctx, uuid.New())
		assert.ErrorIs(t, err, errs.ErrHeadNotFound)
	})

	t.Run("draft without any approved revision", func(t *testing.T) {
		f := newFixture()
		result, err := f.products.Create(ctx, f.ownerID, f.productFields("Draft"), false)
		require.NoError(t, err)

		_, err = f.queries.CurrentProduct(ctx, result.ProductID)
		assert.ErrorIs(t, err, errs.ErrNoCurrentRevision)
	})

	t.Run("deleted head is hidden", func(t *testing.T) {
		f := newFixture()
		result, err := f.products.Create(ctx, f.ownerID, f.productFields("Gone"), true)
		require.NoError(t, err)
		require.NoError(t, f.products.Delete(ctx, result.ProductID))

		_, err = f.queries.CurrentProduct(ctx, result.ProductID)
		assert.ErrorIs(t, err, errs.ErrHeadNotFound)
	})
}

func TestCatalogQueries_AtRevision(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	result, err := f.products.Create(ctx, f.ownerID, f.productFields("Pale Ale"), true)
	require.NoError(t, err)
	productID := result.ProductID

	_, err = f.products.UpdateDirect(ctx, productID, f.productFields("Pale Ale 2.0"))
	require.NoError(t, err)

	t.Run("every past revision stays addressable", func(t *testing.T) {
		v1, err := f.queries.ProductAtRevision(ctx, productID, 1)
		require.NoError(t, err)
		assert.Equal(t, "Pale Ale", v1.Name)

		v2, err := f.queries.ProductAtRevision(ctx, productID, 2)
		require.NoError(t, err)
		assert.Equal(t, "Pale Ale 2.0", v2.Name)
	})

	t.Run("unknown revision", func(t *testing.T) {
		_, err := f.queries.ProductAtRevision(ctx, productID, 3)
		assert.ErrorIs(t, err, errs.ErrRevisionNotFound)
	})

	t.Run("readable after deletion for historical replay", func(t *testing.T) {
		require.NoError(t, f.products.Delete(ctx, productID))

		view, err := f.queries.ProductAtRevision(ctx, productID, 1)
		require.NoError(t, err)
		assert.Equal(t, "Pale Ale", view.Name)
	})
}

func TestCatalogQueries_Revisions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	result, err := f.products.Create(ctx, f.ownerID, f.productFields("Pale Ale"), true)
	require.NoError(t, err)
	for range 3 {
		_, err = f.products.UpdateDirect(ctx, result.ProductID, f.productFields("Pale Ale"))
		require.NoError(t, err)
	}

	revs, err := f.queries.ProductRevisions(ctx, result.ProductID)
	require.NoError(t, err)
	require.Len(t, revs, 4)
	for i, rev := range revs {
		assert.Equal(t, i+1, rev.Revision, "revisions are returned in ascending order")
	}
}

func TestCatalogQueries_CanView(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	stranger := uuid.New()

	privateResult, err := f.containers.Create(ctx, f.ownerID, false, commands.ContainerFields{Name: "Private"}, true)
	require.NoError(t, err)
	publicResult, err := f.containers.Create(ctx, f.ownerID, true, commands.ContainerFields{Name: "Public"}, true)
	require.NoError(t, err)

	testCases := []struct {
		name        string
		containerID uuid.UUID
		viewer      uuid.UUID
		expected    catalog.Visibility
	}{
		{"owner sees a private container", privateResult.ContainerID, f.ownerID, catalog.Visibility{Own: true}},
		{"stranger does not own a private container", privateResult.ContainerID, stranger, catalog.Visibility{}},
		{"owner of a public container", publicResult.ContainerID, f.ownerID, catalog.Visibility{Own: true, Public: true}},
		{"stranger sees a public container", publicResult.ContainerID, stranger, catalog.Visibility{Public: true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vis, err := f.queries.CanView(ctx, tc.viewer, tc.containerID)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, vis)
		})
	}

	t.Run("deleted container is invisible to everyone", func(t *testing.T) {
		require.NoError(t, f.containers.Delete(ctx, publicResult.ContainerID))
		_, err := f.queries.CanView(ctx, stranger, publicResult.ContainerID)
		assert.ErrorIs(t, err, errs.ErrHeadNotFound)
	})

	t.Run("unknown container", func(t *testing.T) {
		_, err := f.queries.CanView(ctx, stranger, uuid.New())
		assert.ErrorIs(t, err, errs.ErrHeadNotFound)
	})
}

func TestCatalogQueries_PendingEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	result, err := f.products.Create(ctx, f.ownerID, f.productFields("Pale Ale"), true)
	require.NoError(t, err)
	productID := result.ProductID

	t.Run("no pending edit", func(t *testing.T) {
		_, ok, err := f.queries.PendingProductEdit(ctx, productID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("pending edit is visible without touching revisions", func(t *testing.T) {
		require.NoError(t, f.products.StageEdit(ctx, productID, f.productFields("Renamed")))

		edit, ok, err := f.queries.PendingProductEdit(ctx, productID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Renamed", edit.Name)

		view, err := f.queries.CurrentProduct(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, "Pale Ale", view.Name)
	})

	t.Run("unknown head", func(t *testing.T) {
		_, _, err := f.queries.PendingProductEdit(ctx, uuid.New())
		assert.ErrorIs(t, err, errs.ErrHeadNotFound)
	})
}
