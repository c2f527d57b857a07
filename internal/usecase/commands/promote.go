package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/domain/container"
	"pos-catalog/internal/domain/pos"
	"pos-catalog/internal/domain/product"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/pkg/metrics"
	"pos-catalog/internal/usecase/shared"

	"github.com/google/uuid"
)

// Promotion appends an immutable revision, advances the head pointer and
// cascades the change to every ancestor whose current revision referenced
// the superseded revision. Everything below runs inside the caller's
// transaction: a failed cascade rolls back the originating promotion too.

func promoteProduct(
	ctx context.Context,
	tx shared.Tx,
	rec *metrics.Recorder,
	id uuid.UUID,
	snap product.Snapshot,
	now time.Time,
) (int, error) {
	head, err := tx.Products().LockHead(ctx, id)
	if err != nil {
		return 0, err
	}
	if head.DeletedAt != nil {
		return 0, errs.ErrHeadDeleted
	}

	next, err := tx.Products().AppendRevision(ctx, id, snap, now)
	if err != nil {
		return 0, err
	}
	if err := tx.Products().SetCurrentRevision(ctx, id, next, now); err != nil {
		return 0, err
	}
	rec.Promotion(catalog.KindProduct.String())

	// The first promotion supersedes nothing, so there is nothing to cascade.
	if head.CurrentRevision != nil {
		if err := propagateProductChange(ctx, tx, rec, id, *head.CurrentRevision, next, now); err != nil {
			return 0, err
		}
	}
	return next, nil
}

func promoteContainer(
	ctx context.Context,
	tx shared.Tx,
	rec *metrics.Recorder,
	id uuid.UUID,
	snap container.Snapshot,
	now time.Time,
	validateRefs bool,
) (int, error) {
	head, err := tx.Containers().LockHead(ctx, id)
	if err != nil {
		return 0, err
	}
	if head.DeletedAt != nil {
		return 0, errs.ErrHeadDeleted
	}
	if validateRefs {
		if err := validateProductRefs(ctx, tx, snap.Products()); err != nil {
			return 0, err
		}
	}

	next, err := tx.Containers().AppendRevision(ctx, id, snap, now)
	if err != nil {
		return 0, err
	}
	if err := tx.Containers().SetCurrentRevision(ctx, id, next, now); err != nil {
		return 0, err
	}
	rec.Promotion(catalog.KindContainer.String())

	if head.CurrentRevision != nil {
		if err := propagateContainerChange(ctx, tx, rec, id, *head.CurrentRevision, next, now); err != nil {
			return 0, err
		}
	}
	return next, nil
}

func promotePointOfSale(
	ctx context.Context,
	tx shared.Tx,
	rec *metrics.Recorder,
	id uuid.UUID,
	snap pos.Snapshot,
	now time.Time,
	validateRefs bool,
) (int, error) {
	head, err := tx.PointsOfSale().LockHead(ctx, id)
	if err != nil {
		return 0, err
	}
	if head.DeletedAt != nil {
		return 0, errs.ErrHeadDeleted
	}
	if validateRefs {
		if err := validateContainerRefs(ctx, tx, snap.Containers()); err != nil {
			return 0, err
		}
	}

	next, err := tx.PointsOfSale().AppendRevision(ctx, id, snap, now)
	if err != nil {
		return 0, err
	}
	if err := tx.PointsOfSale().SetCurrentRevision(ctx, id, next, now); err != nil {
		return 0, err
	}
	rec.Promotion(catalog.KindPointOfSale.String())

	// Points of sale are the top of the hierarchy; nothing to propagate.
	return next, nil
}

// propagateProductChange re-promotes every container whose current revision
// held (productID, oldRev), rewriting that single reference to newRev. Each
// container promotion recursively drives the point-of-sale level.
//
// The fan-out query runs on a statement snapshot taken before the parent
// head lock, so under READ COMMITTED a concurrent promotion can advance a
// parent between the query and LockHead. Every parent is therefore
// re-evaluated on its locked current revision: still holding (productID,
// oldRev) means rewrite, anything else means the parent was re-promoted or
// re-pinned concurrently and is skipped.
func propagateProductChange(
	ctx context.Context,
	tx shared.Tx,
	rec *metrics.Recorder,
	productID uuid.UUID,
	oldRev, newRev int,
	now time.Time,
) error {
	parents, err := tx.Containers().CurrentRevisionsReferencingProduct(ctx, productID, oldRev)
	if err != nil {
		return err
	}
	for _, parent := range parents {
		head, err := tx.Containers().LockHead(ctx, parent.ContainerID)
		if err != nil {
			return err
		}
		if head.DeletedAt != nil {
			continue
		}
		// A head that once had a current revision can never lose it again.
		if head.CurrentRevision == nil {
			return consistencyViolation(rec, catalog.KindContainer, parent.ContainerID, parent.Revision)
		}

		cur := parent
		if *head.CurrentRevision != parent.Revision {
			fresh, err := tx.Containers().GetRevision(ctx, parent.ContainerID, *head.CurrentRevision)
			if err != nil {
				return err
			}
			cur = *fresh
		}
		if !holdsProductRef(cur.Products, productID, oldRev) {
			continue
		}

		snap, changed := container.
			ReconstructSnapshot(cur.Name, cur.Products).
			WithProductRevision(productID, newRev)
		if !changed {
			return consistencyViolation(rec, catalog.KindContainer, parent.ContainerID, cur.Revision)
		}

		next, err := tx.Containers().AppendRevision(ctx, parent.ContainerID, snap, now)
		if err != nil {
			return err
		}
		if err := tx.Containers().SetCurrentRevision(ctx, parent.ContainerID, next, now); err != nil {
			return err
		}
		rec.Propagation(catalog.KindContainer.String())

		if err := propagateContainerChange(ctx, tx, rec, parent.ContainerID, cur.Revision, next, now); err != nil {
			return err
		}
	}
	return nil
}

func propagateContainerChange(
	ctx context.Context,
	tx shared.Tx,
	rec *metrics.Recorder,
	containerID uuid.UUID,
	oldRev, newRev int,
	now time.Time,
) error {
	parents, err := tx.PointsOfSale().CurrentRevisionsReferencingContainer(ctx, containerID, oldRev)
	if err != nil {
		return err
	}
	for _, parent := range parents {
		head, err := tx.PointsOfSale().LockHead(ctx, parent.PointOfSaleID)
		if err != nil {
			return err
		}
		if head.DeletedAt != nil {
			continue
		}
		if head.CurrentRevision == nil {
			return consistencyViolation(rec, catalog.KindPointOfSale, parent.PointOfSaleID, parent.Revision)
		}

		cur := parent
		if *head.CurrentRevision != parent.Revision {
			fresh, err := tx.PointsOfSale().GetRevision(ctx, parent.PointOfSaleID, *head.CurrentRevision)
			if err != nil {
				return err
			}
			cur = *fresh
		}
		if !holdsContainerRef(cur.Containers, containerID, oldRev) {
			continue
		}

		window := pos.ReconstructWindow(cur.StartsAt, cur.EndsAt)
		snap, changed := pos.
			ReconstructSnapshot(cur.Name, cur.RequiresAuthentication, window, cur.Containers).
			WithContainerRevision(containerID, newRev)
		if !changed {
			return consistencyViolation(rec, catalog.KindPointOfSale, parent.PointOfSaleID, cur.Revision)
		}

		next, err := tx.PointsOfSale().AppendRevision(ctx, parent.PointOfSaleID, snap, now)
		if err != nil {
			return err
		}
		if err := tx.PointsOfSale().SetCurrentRevision(ctx, parent.PointOfSaleID, next, now); err != nil {
			return err
		}
		rec.Propagation(catalog.KindPointOfSale.String())
	}
	return nil
}

func holdsProductRef(refs []catalog.ProductRef, productID uuid.UUID, revision int) bool {
	for _, ref := range refs {
		if ref.ProductID == productID && ref.Revision == revision {
			return true
		}
	}
	return false
}

func holdsContainerRef(refs []catalog.ContainerRef, containerID uuid.UUID, revision int) bool {
	for _, ref := range refs {
		if ref.ContainerID == containerID && ref.Revision == revision {
			return true
		}
	}
	return false
}

func validateProductRefs(ctx context.Context, tx shared.Tx, refs []catalog.ProductRef) error {
	for _, ref := range refs {
		if _, err := tx.Products().GetRevision(ctx, ref.ProductID, ref.Revision); err != nil {
			if errors.Is(err, errs.ErrHeadNotFound) || errors.Is(err, errs.ErrRevisionNotFound) {
				return errs.Mark(
					errs.Wrapf(err, "product %s revision %d", ref.ProductID, ref.Revision),
					errs.ErrInvalidReference,
				)
			}
			return err
		}
	}
	return nil
}

func validateContainerRefs(ctx context.Context, tx shared.Tx, refs []catalog.ContainerRef) error {
	for _, ref := range refs {
		if _, err := tx.Containers().GetRevision(ctx, ref.ContainerID, ref.Revision); err != nil {
			if errors.Is(err, errs.ErrHeadNotFound) || errors.Is(err, errs.ErrRevisionNotFound) {
				return errs.Mark(
					errs.Wrapf(err, "container %s revision %d", ref.ContainerID, ref.Revision),
					errs.ErrInvalidReference,
				)
			}
			return err
		}
	}
	return nil
}

func consistencyViolation(rec *metrics.Recorder, kind catalog.Kind, id uuid.UUID, revision int) error {
	rec.ConsistencyViolation()
	slog.Error("propagation matched a non-current ancestor revision",
		"kind", kind.String(),
		"id", id.String(),
		"revision", revision)
	return errs.ErrConsistencyViolation
}
