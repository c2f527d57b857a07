//go:build unit

package commands

import (
	"context"
	"testing"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/domain/container"
	"pos-catalog/internal/domain/product"
	"pos-catalog/internal/infra/memory"
	"pos-catalog/internal/pkg/metrics"
	"pos-catalog/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fan-out query runs on a statement snapshot taken before the parent
// head lock, so under READ COMMITTED another committed promotion can move a
// parent between the query and LockHead. These tests feed the propagation
// loop fan-out rows that are already stale at lock time and assert the loop
// settles on the locked head instead of failing.

type staleFanOutTx struct {
	shared.Tx
	parents []shared.ContainerRevisionRecord
}

func (t *staleFanOutTx) Containers() shared.ContainerRepository {
	return &staleFanOutContainers{ContainerRepository: t.Tx.Containers(), parents: t.parents}
}

type staleFanOutContainers struct {
	shared.ContainerRepository
	parents []shared.ContainerRevisionRecord
}

func (r *staleFanOutContainers) CurrentRevisionsReferencingProduct(context.Context, uuid.UUID, int) ([]shared.ContainerRevisionRecord, error) {
	return r.parents, nil
}

type propagationHarness struct {
	store       *memory.Store
	rec         *metrics.Recorder
	now         time.Time
	productID   uuid.UUID
	containerID uuid.UUID
}

// seed builds a product at revision 2 and a container whose revision 1
// references (product, 1). seedCurrent appends the container revision a
// concurrent promotion would have committed and makes it current.
func seedHarness(t *testing.T, ctx context.Context, seedCurrent func(t *testing.T, tx shared.Tx, h *propagationHarness)) *propagationHarness {
	t.Helper()
	h := &propagationHarness{
		store: memory.NewStore(),
		rec:   metrics.NewRecorder(prometheus.NewRegistry()),
		now:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	prod := product.NewProduct(uuid.New(), h.now)
	cont := container.NewContainer(uuid.New(), false, h.now)
	h.productID = prod.ID()
	h.containerID = cont.ID()

	err := h.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := product.NewSnapshot("Pale Ale", 650, uuid.New(), uuid.New(), 5.2, nil)
		require.NoError(t, err)
		require.NoError(t, tx.Products().CreateHead(ctx, prod))
		for rev := 1; rev <= 2; rev++ {
			_, err := tx.Products().AppendRevision(ctx, prod.ID(), snap, h.now)
			require.NoError(t, err)
			require.NoError(t, tx.Products().SetCurrentRevision(ctx, prod.ID(), rev, h.now))
		}

		require.NoError(t, tx.Containers().CreateHead(ctx, cont))
		first, err := container.NewSnapshot("Beers", []catalog.ProductRef{{ProductID: prod.ID(), Revision: 1}})
		require.NoError(t, err)
		_, err = tx.Containers().AppendRevision(ctx, cont.ID(), first, h.now)
		require.NoError(t, err)
		require.NoError(t, tx.Containers().SetCurrentRevision(ctx, cont.ID(), 1, h.now))

		seedCurrent(t, tx, h)
		return nil
	})
	require.NoError(t, err)
	return h
}

// propagate replays the cascade for product revision 1 -> 2 against a
// fan-out that still reports the container's revision 1 as current.
func (h *propagationHarness) propagate(t *testing.T, ctx context.Context) error {
	t.Helper()
	return h.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		stale, err := tx.Containers().GetRevision(ctx, h.containerID, 1)
		require.NoError(t, err)
		wrapped := &staleFanOutTx{Tx: tx, parents: []shared.ContainerRevisionRecord{*stale}}
		return propagateProductChange(ctx, wrapped, h.rec, h.productID, 1, 2, h.now)
	})
}

func TestPropagateProductChange_ParentRepromotedSinceFanOutIsSkipped(t *testing.T) {
	ctx := context.Background()
	h := seedHarness(t, ctx, func(t *testing.T, tx shared.Tx, h *propagationHarness) {
		// the concurrent promotion already moved the container on to (product, 2)
		moved, err := container.NewSnapshot("Beers", []catalog.ProductRef{{ProductID: h.productID, Revision: 2}})
		require.NoError(t, err)
		_, err = tx.Containers().AppendRevision(ctx, h.containerID, moved, h.now)
		require.NoError(t, err)
		require.NoError(t, tx.Containers().SetCurrentRevision(ctx, h.containerID, 2, h.now))
	})

	require.NoError(t, h.propagate(t, ctx))

	revs, err := h.store.ContainerRevisions(ctx, h.containerID)
	require.NoError(t, err)
	assert.Len(t, revs, 2, "a parent already past the superseded reference gets no extra revision")

	head, err := h.store.ContainerHead(ctx, h.containerID)
	require.NoError(t, err)
	require.NotNil(t, head.CurrentRevision)
	assert.Equal(t, 2, *head.CurrentRevision)
}

func TestPropagateProductChange_LockedHeadStillStaleIsRewritten(t *testing.T) {
	ctx := context.Background()
	h := seedHarness(t, ctx, func(t *testing.T, tx shared.Tx, h *propagationHarness) {
		// a concurrent rename kept the stale product reference
		renamed, err := container.NewSnapshot("Craft Beers", []catalog.ProductRef{{ProductID: h.productID, Revision: 1}})
		require.NoError(t, err)
		_, err = tx.Containers().AppendRevision(ctx, h.containerID, renamed, h.now)
		require.NoError(t, err)
		require.NoError(t, tx.Containers().SetCurrentRevision(ctx, h.containerID, 2, h.now))
	})

	require.NoError(t, h.propagate(t, ctx))

	head, err := h.store.ContainerHead(ctx, h.containerID)
	require.NoError(t, err)
	require.NotNil(t, head.CurrentRevision)
	require.Equal(t, 3, *head.CurrentRevision)

	// the rewrite starts from the locked current revision, not the fan-out row
	rewritten, err := h.store.ContainerRevision(ctx, h.containerID, 3)
	require.NoError(t, err)
	assert.Equal(t, "Craft Beers", rewritten.Name)
	require.Len(t, rewritten.Products, 1)
	assert.Equal(t, 2, rewritten.Products[0].Revision)
}

func TestPropagateProductChange_ParentDeletedSinceFanOutIsSkipped(t *testing.T) {
	ctx := context.Background()
	h := seedHarness(t, ctx, func(t *testing.T, tx shared.Tx, h *propagationHarness) {
		require.NoError(t, tx.Containers().SoftDelete(ctx, h.containerID, h.now))
	})

	require.NoError(t, h.propagate(t, ctx))

	revs, err := h.store.ContainerRevisions(ctx, h.containerID)
	require.NoError(t, err)
	assert.Len(t, revs, 1, "a soft-deleted parent gets no new revision")
}
