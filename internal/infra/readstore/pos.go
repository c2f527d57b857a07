package readstore

import (
	"context"
	"encoding/json"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/infra/db"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/pkg/pgconv"
	"pos-catalog/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PointOfSaleReadStore struct {
	db db.DBTX
}

func NewPointOfSaleReadStore(dbtx db.DBTX) *PointOfSaleReadStore {
	return &PointOfSaleReadStore{db: dbtx}
}

func (s *PointOfSaleReadStore) PointOfSaleHead(ctx context.Context, id uuid.UUID) (*queries.PointOfSaleHeadView, error) {
	const query = `
		SELECT id, owner_id, current_revision, created_at, updated_at, deleted_at
		FROM points_of_sale
		WHERE id = $1`

	var (
		view            queries.PointOfSaleHeadView
		currentRevision pgtype.Int4
		deletedAt       pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.OwnerID, &currentRevision,
		&view.CreatedAt, &view.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(errs.Wrap(err, "point of sale head not found"), errs.ErrHeadNotFound)
		}
		return nil, errs.Wrap(err, "failed to read point of sale head")
	}
	view.CurrentRevision = pgconv.IntPtrFromPgtype(currentRevision)
	view.DeletedAt = pgconv.TimePtrFromPgtype(deletedAt)
	return &view, nil
}

func (s *PointOfSaleReadStore) PointOfSaleRevision(ctx context.Context, id uuid.UUID, revision int) (*queries.PointOfSaleRevisionView, error) {
	const query = `
		SELECT pr.pos_id, pr.revision, pr.name, pr.requires_authentication, pr.starts_at, pr.ends_at, pr.created_at,
			COALESCE(
				(SELECT json_agg(json_build_object('container_id', prc.container_id, 'revision', prc.container_revision) ORDER BY prc.container_id)
				 FROM pos_revision_containers prc
				 WHERE prc.pos_id = pr.pos_id AND prc.revision = pr.revision),
				'[]'::json
			)
		FROM pos_revisions pr
		WHERE pr.pos_id = $1 AND pr.revision = $2`

	var (
		view       queries.PointOfSaleRevisionView
		containers []byte
	)
	err := s.db.QueryRow(ctx, query, id, revision).Scan(
		&view.PointOfSaleID, &view.Revision, &view.Name, &view.RequiresAuthentication,
		&view.StartsAt, &view.EndsAt, &view.CreatedAt, &containers,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(errs.Wrap(err, "point of sale revision not found"), errs.ErrRevisionNotFound)
		}
		return nil, errs.Wrap(err, "failed to read point of sale revision")
	}
	if err := json.Unmarshal(containers, &view.Containers); err != nil {
		return nil, errs.Wrap(err, "failed to decode point of sale revision references")
	}
	return &view, nil
}

func (s *PointOfSaleReadStore) PointOfSaleRevisions(ctx context.Context, id uuid.UUID) ([]queries.PointOfSaleRevisionView, error) {
	const query = `
		SELECT pr.pos_id, pr.revision, pr.name, pr.requires_authentication, pr.starts_at, pr.ends_at, pr.created_at,
			COALESCE(
				(SELECT json_agg(json_build_object('container_id', prc.container_id, 'revision', prc.container_revision) ORDER BY prc.container_id)
				 FROM pos_revision_containers prc
				 WHERE prc.pos_id = pr.pos_id AND prc.revision = pr.revision),
				'[]'::json
			)
		FROM pos_revisions pr
		WHERE pr.pos_id = $1
		ORDER BY pr.revision`

	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list point of sale revisions")
	}
	defer rows.Close()

	var views []queries.PointOfSaleRevisionView
	for rows.Next() {
		var (
			view       queries.PointOfSaleRevisionView
			containers []byte
		)
		err := rows.Scan(
			&view.PointOfSaleID, &view.Revision, &view.Name, &view.RequiresAuthentication,
			&view.StartsAt, &view.EndsAt, &view.CreatedAt, &containers,
		)
		if err != nil {
			return nil, errs.Wrap(err, "failed to scan point of sale revision")
		}
		if err := json.Unmarshal(containers, &view.Containers); err != nil {
			return nil, errs.Wrap(err, "failed to decode point of sale revision references")
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "failed to iterate point of sale revisions")
	}
	return views, nil
}

func (s *PointOfSaleReadStore) PendingPointOfSaleEdit(ctx context.Context, id uuid.UUID) (*queries.PointOfSaleEditView, bool, error) {
	const query = `
		SELECT pos_id, name, requires_authentication, starts_at, ends_at, containers, updated_at
		FROM pos_edits
		WHERE pos_id = $1`

	var (
		view       queries.PointOfSaleEditView
		containers []byte
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.PointOfSaleID, &view.Name, &view.RequiresAuthentication,
		&view.StartsAt, &view.EndsAt, &containers, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, errs.Wrap(err, "failed to read pending point of sale edit")
	}

	var refs []catalog.ContainerRef
	if err := json.Unmarshal(containers, &refs); err != nil {
		return nil, false, errs.Wrap(err, "failed to decode pending point of sale edit references")
	}
	view.Containers = refs
	return &view, true, nil
}
