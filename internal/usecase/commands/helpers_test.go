//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/infra/memory"
	"pos-catalog/internal/pkg/clock"
	"pos-catalog/internal/pkg/metrics"
	"pos-catalog/internal/usecase/commands"
	"pos-catalog/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store        *memory.Store
	clk          *clock.MockClock
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
		store:        store,
		clk:          clk,
		products:     commands.NewProductCommands(store, clk, rec),
		containers:   commands.NewContainerCommands(store, clk, rec),
		pointsOfSale: commands.NewPointOfSaleCommands(store, clk, rec),
		queries:      queries.NewCatalogQueries(store, store, store),
		ownerID:      uuid.New(),
	}
}

func productFields(name string, priceCents int64) commands.ProductFields {
	return commands.ProductFields{
		Name:              name,
		PriceCents:        priceCents,
		VATGroupID:        uuid.New(),
		CategoryID:        uuid.New(),
		AlcoholPercentage: 0,
	}
}

func posFields(name string, containers []catalog.ContainerRef) commands.PointOfSaleFields {
	return commands.PointOfSaleFields{
		Name:       name,
		StartsAt:   time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC),
		Containers: containers,
	}
}

// createProduct registers an immediately approved product at revision 1.
func (f *fixture) createProduct(t *testing.T, name string) uuid.UUID {
	t.Helper()
	result, err := f.products.Create(context.Background(), f.ownerID, productFields(name, 500), true)
	require.NoError(t, err)
	require.NotNil(t, result.Revision)
	require.Equal(t, 1, *result.Revision)
	return result.ProductID
}

func (f *fixture) createContainer(t *testing.T, name string, isPublic bool, refs []catalog.ProductRef) uuid.UUID {
	t.Helper()
	result, err := f.containers.Create(context.Background(), f.ownerID, isPublic, commands.ContainerFields{
		Name:     name,
		Products: refs,
	}, true)
	require.NoError(t, err)
	require.NotNil(t, result.Revision)
	require.Equal(t, 1, *result.Revision)
	return result.ContainerID
}

func (f *fixture) createPointOfSale(t *testing.T, name string, refs []catalog.ContainerRef) uuid.UUID {
	t.Helper()
	result, err := f.pointsOfSale.Create(context.Background(), f.ownerID, posFields(name, refs), true)
	require.NoError(t, err)
	require.NotNil(t, result.Revision)
	require.Equal(t, 1, *result.Revision)
	return result.PointOfSaleID
}
