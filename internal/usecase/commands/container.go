package commands

import (
	"context"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/domain/container"
	"pos-catalog/internal/pkg/clock"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/pkg/metrics"
	"pos-catalog/internal/usecase/shared"

	"github.com/google/uuid"
)

// ContainerFields is the full field set of one container revision. Product
// references are taken verbatim, so a container may deliberately pin an
// older product revision.
type ContainerFields struct {
	Name     string
	Products []catalog.ProductRef
}

type CreateContainerResult struct {
	ContainerID uuid.UUID
	Revision    *int
}

type ContainerCommands interface {
	Create(ctx context.Context, ownerID uuid.UUID, isPublic bool, fields ContainerFields, approveImmediately bool) (*CreateContainerResult, error)
	UpdateDirect(ctx context.Context, containerID uuid.UUID, fields ContainerFields) (int, error)
	StageEdit(ctx context.Context, containerID uuid.UUID, fields ContainerFields) error
	ApproveEdit(ctx context.Context, containerID uuid.UUID) (int, error)
	DiscardEdit(ctx context.Context, containerID uuid.UUID) error
	Delete(ctx context.Context, containerID uuid.UUID) error
}

type containerCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	rec   *metrics.Recorder
}

func NewContainerCommands(uow shared.UnitOfWork, clk clock.Clock, rec *metrics.Recorder) ContainerCommands {
	return &containerCommandsImpl{uow: uow, clock: clk, rec: rec}
}

func (uc *containerCommandsImpl) Create(ctx context.Context, ownerID uuid.UUID, isPublic bool, fields ContainerFields, approveImmediately bool) (*CreateContainerResult, error) {
	snap, err := container.NewSnapshot(fields.Name, fields.Products)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	head := container.NewContainer(ownerID, isPublic, now)
	result := &CreateContainerResult{ContainerID: head.ID()}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Containers().CreateHead(ctx, head); err != nil {
			return err
		}
		if !approveImmediately {
			// Staged initial fields are validated against existing product
			// revisions only at approval time, like any other staged edit.
			return tx.Containers().UpsertEdit(ctx, head.ID(), snap, now)
		}
		revision, err := promoteContainer(ctx, tx, uc.rec, head.ID(), snap, now, true)
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

func (uc *containerCommandsImpl) UpdateDirect(ctx context.Context, containerID uuid.UUID, fields ContainerFields) (int, error) {
	snap, err := container.NewSnapshot(fields.Name, fields.Products)
	if err != nil {
		return 0, err
	}

	var revision int
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		revision, err = promoteContainer(ctx, tx, uc.rec, containerID, snap, uc.clock.Now(), true)
		return err
	})
	if err != nil {
		return 0, err
	}
	return revision, nil
}

func (uc *containerCommandsImpl) StageEdit(ctx context.Context, containerID uuid.UUID, fields ContainerFields) error {
	snap, err := container.NewSnapshot(fields.Name, fields.Products)
	if err != nil {
		return err
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		head, err := tx.Containers().GetHead(ctx, containerID)
		if err != nil {
			return err
		}
		if head.DeletedAt != nil {
			return errs.ErrHeadDeleted
		}
		return tx.Containers().UpsertEdit(ctx, containerID, snap, uc.clock.Now())
	})
}

func (uc *containerCommandsImpl) ApproveEdit(ctx context.Context, containerID uuid.UUID) (int, error) {
	var revision int
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, ok, err := tx.Containers().GetEdit(ctx, containerID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ErrNoPendingEdit
		}
		revision, err = promoteContainer(ctx, tx, uc.rec, containerID, snap, uc.clock.Now(), true)
		if err != nil {
			return err
		}
		return tx.Containers().DeleteEdit(ctx, containerID)
	})
	if err != nil {
		return 0, err
	}
	return revision, nil
}

func (uc *containerCommandsImpl) DiscardEdit(ctx context.Context, containerID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Containers().GetHead(ctx, containerID); err != nil {
			return err
		}
		return tx.Containers().DeleteEdit(ctx, containerID)
	})
}

func (uc *containerCommandsImpl) Delete(ctx context.Context, containerID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		head, err := tx.Containers().LockHead(ctx, containerID)
		if err != nil {
			return err
		}
		if head.DeletedAt != nil {
			return nil
		}
		if err := tx.Containers().DeleteEdit(ctx, containerID); err != nil {
			return err
		}
		return tx.Containers().SoftDelete(ctx, containerID, uc.clock.Now())
	})
}
