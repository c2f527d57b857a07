package commands

import (
	"context"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/domain/pos"
	"pos-catalog/internal/pkg/clock"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/pkg/metrics"
	"pos-catalog/internal/usecase/shared"

	"github.com/google/uuid"
)

// PointOfSaleFields is the full field set of one point-of-sale revision.
// The validity window is half-open: [StartsAt, EndsAt).
type PointOfSaleFields struct {
	Name                   string
	RequiresAuthentication bool
	StartsAt               time.Time
	EndsAt                 time.Time
	Containers             []catalog.ContainerRef
}

type CreatePointOfSaleResult struct {
	PointOfSaleID uuid.UUID
	Revision      *int
}

type PointOfSaleCommands interface {
	Create(ctx context.Context, ownerID uuid.UUID, fields PointOfSaleFields, approveImmediately bool) (*CreatePointOfSaleResult, error)
	UpdateDirect(ctx context.Context, posID uuid.UUID, fields PointOfSaleFields) (int, error)
	StageEdit(ctx context.Context, posID uuid.UUID, fields PointOfSaleFields) error
	ApproveEdit(ctx context.Context, posID uuid.UUID) (int, error)
	DiscardEdit(ctx context.Context, posID uuid.UUID) error
	Delete(ctx context.Context, posID uuid.UUID) error
}

type posCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	rec   *metrics.Recorder
}

func NewPointOfSaleCommands(uow shared.UnitOfWork, clk clock.Clock, rec *metrics.Recorder) PointOfSaleCommands {
	return &posCommandsImpl{uow: uow, clock: clk, rec: rec}
}

func (uc *posCommandsImpl) Create(ctx context.Context, ownerID uuid.UUID, fields PointOfSaleFields, approveImmediately bool) (*CreatePointOfSaleResult, error) {
	snap, err := newPointOfSaleSnapshot(fields)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	head := pos.NewPointOfSale(ownerID, now)
	result := &CreatePointOfSaleResult{PointOfSaleID: head.ID()}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.PointsOfSale().CreateHead(ctx, head); err != nil {
			return err
		}
		if !approveImmediately {
			return tx.PointsOfSale().UpsertEdit(ctx, head.ID(), snap, now)
		}
		revision, err := promotePointOfSale(ctx, tx, uc.rec, head.ID(), snap, now, true)
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

func (uc *posCommandsImpl) UpdateDirect(ctx context.Context, posID uuid.UUID, fields PointOfSaleFields) (int, error) {
	snap, err := newPointOfSaleSnapshot(fields)
	if err != nil {
		return 0, err
	}

	var revision int
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		revision, err = promotePointOfSale(ctx, tx, uc.rec, posID, snap, uc.clock.Now(), true)
		return err
	})
	if err != nil {
		return 0, err
	}
	return revision, nil
}

func (uc *posCommandsImpl) StageEdit(ctx context.Context, posID uuid.UUID, fields PointOfSaleFields) error {
	snap, err := newPointOfSaleSnapshot(fields)
	if err != nil {
		return err
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		head, err := tx.PointsOfSale().GetHead(ctx, posID)
		if err != nil {
			return err
		}
		if head.DeletedAt != nil {
			return errs.ErrHeadDeleted
		}
		return tx.PointsOfSale().UpsertEdit(ctx, posID, snap, uc.clock.Now())
	})
}

func (uc *posCommandsImpl) ApproveEdit(ctx context.Context, posID uuid.UUID) (int, error) {
	var revision int
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, ok, err := tx.PointsOfSale().GetEdit(ctx, posID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ErrNoPendingEdit
		}
		revision, err = promotePointOfSale(ctx, tx, uc.rec, posID, snap, uc.clock.Now(), true)
		if err != nil {
			return err
		}
		return tx.PointsOfSale().DeleteEdit(ctx, posID)
	})
	if err != nil {
		return 0, err
	}
	return revision, nil
}

func (uc *posCommandsImpl) DiscardEdit(ctx context.Context, posID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.PointsOfSale().GetHead(ctx, posID); err != nil {
			return err
		}
		return tx.PointsOfSale().DeleteEdit(ctx, posID)
	})
}

func (uc *posCommandsImpl) Delete(ctx context.Context, posID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		head, err := tx.PointsOfSale().LockHead(ctx, posID)
		if err != nil {
			return err
		}
		if head.DeletedAt != nil {
			return nil
		}
		if err := tx.PointsOfSale().DeleteEdit(ctx, posID); err != nil {
			return err
		}
		return tx.PointsOfSale().SoftDelete(ctx, posID, uc.clock.Now())
	})
}

func newPointOfSaleSnapshot(fields PointOfSaleFields) (pos.Snapshot, error) {
	window, err := pos.NewWindow(fields.StartsAt, fields.EndsAt)
	if err != nil {
		return pos.Snapshot{}, err
	}
	return pos.NewSnapshot(fields.Name, fields.RequiresAuthentication, window, fields.Containers)
}
