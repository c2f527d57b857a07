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

type ContainerReadStore struct {
	db db.DBTX
}

func NewContainerReadStore(dbtx db.DBTX) *ContainerReadStore {
	return &ContainerReadStore{db: dbtx}
}

func (s *ContainerReadStore) ContainerHead(ctx context.Context, id uuid.UUID) (*queries.ContainerHeadView, error) {
	const query = `
		SELECT id, owner_id, is_public, current_revision, created_at, updated_at, deleted_at
		FROM containers
		WHERE id = $1`

	var (
		view            queries.ContainerHeadView
		currentRevision pgtype.Int4
		deletedAt       pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.OwnerID, &view.IsPublic, &currentRevision,
		&view.CreatedAt, &view.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(errs.Wrap(err, "container head not found"), errs.ErrHeadNotFound)
		}
		return nil, errs.Wrap(err, "failed to read container head")
	}
	view.CurrentRevision = pgconv.IntPtrFromPgtype(currentRevision)
	view.DeletedAt = pgconv.TimePtrFromPgtype(deletedAt)
	return &view, nil
}

// ContainerRevision aggregates the reference rows into the view in one
// statement, so the revision and its references are read consistently.
func (s *ContainerReadStore) ContainerRevision(ctx context.Context, id uuid.UUID, revision int) (*queries.ContainerRevisionView, error) {
	const query = `
		SELECT cr.container_id, cr.revision, cr.name, cr.created_at,
			COALESCE(
				(SELECT json_agg(json_build_object('product_id', crp.product_id, 'revision', crp.product_revision) ORDER BY crp.product_id)
				 FROM container_revision_products crp
				 WHERE crp.container_id = cr.container_id AND crp.revision = cr.revision),
				'[]'::json
			)
		FROM container_revisions cr
		WHERE cr.container_id = $1 AND cr.revision = $2`

	var (
		view     queries.ContainerRevisionView
		products []byte
	)
	err := s.db.QueryRow(ctx, query, id, revision).Scan(
		&view.ContainerID, &view.Revision, &view.Name, &view.CreatedAt, &products,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(errs.Wrap(err, "container revision not found"), errs.ErrRevisionNotFound)
		}
		return nil, errs.Wrap(err, "failed to read container revision")
	}
	if err := json.Unmarshal(products, &view.Products); err != nil {
		return nil, errs.Wrap(err, "failed to decode container revision references")
	}
	return &view, nil
}

func (s *ContainerReadStore) ContainerRevisions(ctx context.Context, id uuid.UUID) ([]queries.ContainerRevisionView, error) {
	const query = `
		SELECT cr.container_id, cr.revision, cr.name, cr.created_at,
			COALESCE(
				(SELECT json_agg(json_build_object('product_id', crp.product_id, 'revision', crp.product_revision) ORDER BY crp.product_id)
				 FROM container_revision_products crp
				 WHERE crp.container_id = cr.container_id AND crp.revision = cr.revision),
				'[]'::json
			)
		FROM container_revisions cr
		WHERE cr.container_id = $1
		ORDER BY cr.revision`

	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list container revisions")
	}
	defer rows.Close()

	var views []queries.ContainerRevisionView
	for rows.Next() {
		var (
			view     queries.ContainerRevisionView
			products []byte
		)
		if err := rows.Scan(&view.ContainerID, &view.Revision, &view.Name, &view.CreatedAt, &products); err != nil {
			return nil, errs.Wrap(err, "failed to scan container revision")
		}
		if err := json.Unmarshal(products, &view.Products); err != nil {
			return nil, errs.Wrap(err, "failed to decode container revision references")
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "failed to iterate container revisions")
	}
	return views, nil
}

func (s *ContainerReadStore) PendingContainerEdit(ctx context.Context, id uuid.UUID) (*queries.ContainerEditView, bool, error) {
	const query = `
		SELECT container_id, name, products, updated_at
		FROM container_edits
		WHERE container_id = $1`

	var (
		view     queries.ContainerEditView
		products []byte
	)
	err := s.db.QueryRow(ctx, query, id).Scan(&view.ContainerID, &view.Name, &products, &view.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, errs.Wrap(err, "failed to read pending container edit")
	}

	var refs []catalog.ProductRef
	if err := json.Unmarshal(products, &refs); err != nil {
		return nil, false, errs.Wrap(err, "failed to decode pending container edit references")
	}
	view.Products = refs
	return &view, true, nil
}
