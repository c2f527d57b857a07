package commands

import (
	"context"

	"pos-catalog/internal/domain/product"
	"pos-catalog/internal/pkg/clock"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/pkg/metrics"
	"pos-catalog/internal/usecase/shared"

	"github.com/google/uuid"
)

// ProductFields is the full field set of one product revision. Every edit
// path (direct, staged, create) supplies the complete set; there are no
// partial updates at the revision level.
type ProductFields struct {
	Name              string
	PriceCents        int64
	VATGroupID        uuid.UUID
	CategoryID        uuid.UUID
	AlcoholPercentage float64
	ImageRef          *string
}

type CreateProductResult struct {
	ProductID uuid.UUID
	// Revision is set when the product was approved immediately; nil means
	// the initial fields went into the staged-edit buffer.
	Revision *int
}

type ProductCommands interface {
	// Create registers a new head. With approveImmediately the initial
	// fields become revision 1 in the same transaction; otherwise the head
	// stays an invisible draft holding a pending edit.
	Create(ctx context.Context, ownerID uuid.UUID, fields ProductFields, approveImmediately bool) (*CreateProductResult, error)
	// UpdateDirect promotes the supplied fields without an approval step
	// and returns the new revision number.
	UpdateDirect(ctx context.Context, productID uuid.UUID, fields ProductFields) (int, error)
	// StageEdit upserts the pending edit; a later edit overwrites an
	// earlier unapproved one.
	StageEdit(ctx context.Context, productID uuid.UUID, fields ProductFields) error
	// ApproveEdit promotes the pending edit and clears it. Approving a head
	// with no pending edit fails with errs.ErrNoPendingEdit, which makes
	// double approval a detectable no-op instead of a duplicate revision.
	ApproveEdit(ctx context.Context, productID uuid.UUID) (int, error)
	// DiscardEdit drops the pending edit without touching any revision.
	DiscardEdit(ctx context.Context, productID uuid.UUID) error
	// Delete soft-deletes the head. Revisions stay readable forever.
	Delete(ctx context.Context, productID uuid.UUID) error
}

type productCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	rec   *metrics.Recorder
}

func NewProductCommands(uow shared.UnitOfWork, clk clock.Clock, rec *metrics.Recorder) ProductCommands {
	return &productCommandsImpl{uow: uow, clock: clk, rec: rec}
}

func (uc *productCommandsImpl) Create(ctx context.Context, ownerID uuid.UUID, fields ProductFields, approveImmediately bool) (*CreateProductResult, error) {
	snap, err := newProductSnapshot(fields)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	head := product.NewProduct(ownerID, now)
	result := &CreateProductResult{ProductID: head.ID()}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Products().CreateHead(ctx, head); err != nil {
			return err
		}
		if !approveImmediately {
			return tx.Products().UpsertEdit(ctx, head.ID(), snap, now)
		}
		revision, err := promoteProduct(ctx, tx, uc.rec, head.ID(), snap, now)
		if err != nil {
			return err
		}
		result.Revision = &revision
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *productCommandsImpl) UpdateDirect(ctx context.Context, productID uuid.UUID, fields ProductFields) (int, error) {
	snap, err := newProductSnapshot(fields)
	if err != nil {
		return 0, err
	}

	var revision int
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		revision, err = promoteProduct(ctx, tx, uc.rec, productID, snap, uc.clock.Now())
		return err
	})
	if err != nil {
		return 0, err
	}
	return revision, nil
}

func (uc *productCommandsImpl) StageEdit(ctx context.Context, productID uuid.UUID, fields ProductFields) error {
	snap, err := newProductSnapshot(fields)
	if err != nil {
		return err
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		head, err := tx.Products().GetHead(ctx, productID)
		if err != nil {
			return err
		}
		if head.DeletedAt != nil {
			return errs.ErrHeadDeleted
		}
		return tx.Products().UpsertEdit(ctx, productID, snap, uc.clock.Now())
	})
}

func (uc *productCommandsImpl) ApproveEdit(ctx context.Context, productID uuid.UUID) (int, error) {
	var revision int
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, ok, err := tx.Products().GetEdit(ctx, productID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ErrNoPendingEdit
		}
		revision, err = promoteProduct(ctx, tx, uc.rec, productID, snap, uc.clock.Now())
		if err != nil {
			return err
		}
		return tx.Products().DeleteEdit(ctx, productID)
	})
	if err != nil {
		return 0, err
	}
	return revision, nil
}

func (uc *productCommandsImpl) DiscardEdit(ctx context.Context, productID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Products().GetHead(ctx, productID); err != nil {
			return err
		}
		return tx.Products().DeleteEdit(ctx, productID)
	})
}

func (uc *productCommandsImpl) Delete(ctx context.Context, productID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		head, err := tx.Products().LockHead(ctx, productID)
		if err != nil {
			return err
		}
		if head.DeletedAt != nil {
			return nil
		}
		if err := tx.Products().DeleteEdit(ctx, productID); err != nil {
			return err
		}
		return tx.Products().SoftDelete(ctx, productID, uc.clock.Now())
	})
}

func newProductSnapshot(fields ProductFields) (product.Snapshot, error) {
	return product.NewSnapshot(
		fields.Name,
		fields.PriceCents,
		fields.VATGroupID,
		fields.CategoryID,
		fields.AlcoholPercentage,
		fields.ImageRef,
	)
}
