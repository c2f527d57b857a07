package repository

import (
	"context"
	"encoding/json"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/domain/pos"
	"pos-catalog/internal/infra"
	"pos-catalog/internal/infra/db"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/pkg/pgconv"
	"pos-catalog/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PointOfSaleRepository struct {
	db db.DBTX
}

func NewPointOfSaleRepository(dbtx db.DBTX) *PointOfSaleRepository {
	return &PointOfSaleRepository{db: dbtx}
}

func (r *PointOfSaleRepository) CreateHead(ctx context.Context, p *pos.PointOfSale) error {
	const query = `
		INSERT INTO points_of_sale (id, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, p.ID(), p.OwnerID(), p.CreatedAt(), p.UpdatedAt()); err != nil {
		return wrapDBErr("failed to create point of sale head", err)
	}
	return nil
}

func (r *PointOfSaleRepository) GetHead(ctx context.Context, id uuid.UUID) (*shared.PointOfSaleHead, error) {
	return r.scanHead(ctx, id, `
		SELECT id, owner_id, current_revision, created_at, updated_at, deleted_at
		FROM points_of_sale
		WHERE id = $1`)
}

func (r *PointOfSaleRepository) LockHead(ctx context.Context, id uuid.UUID) (*shared.PointOfSaleHead, error) {
	return r.scanHead(ctx, id, `
		SELECT id, owner_id, current_revision, created_at, updated_at, deleted_at
		FROM points_of_sale
		WHERE id = $1
		FOR UPDATE`)
}

func (r *PointOfSaleRepository) scanHead(ctx context.Context, id uuid.UUID, query string) (*shared.PointOfSaleHead, error) {
	var (
		head            shared.PointOfSaleHead
		currentRevision pgtype.Int4
		deletedAt       pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&head.ID, &head.OwnerID, &currentRevision,
		&head.CreatedAt, &head.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, markNotFound("point of sale head not found", err, errs.ErrHeadNotFound)
		}
		return nil, wrapDBErr("failed to get point of sale head", err)
	}
	head.CurrentRevision = pgconv.IntPtrFromPgtype(currentRevision)
	head.DeletedAt = pgconv.TimePtrFromPgtype(deletedAt)
	return &head, nil
}

func (r *PointOfSaleRepository) SetCurrentRevision(ctx context.Context, id uuid.UUID, revision int, now time.Time) error {
	const query = `
		UPDATE points_of_sale
		SET current_revision = $2, updated_at = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, revision, now)
	if err != nil {
		return wrapDBErr("failed to set current point of sale revision", err)
	}
	if tag.RowsAffected() == 0 {
		return markNotFound("point of sale head not found", nil, errs.ErrHeadNotFound)
	}
	return nil
}

func (r *PointOfSaleRepository) AppendRevision(ctx context.Context, id uuid.UUID, snap pos.Snapshot, now time.Time) (int, error) {
	const insertRevision = `
		INSERT INTO pos_revisions (pos_id, revision, name, requires_authentication, starts_at, ends_at, created_at)
		SELECT $1, COALESCE(MAX(revision), 0) + 1, $2, $3, $4, $5, $6
		FROM pos_revisions
		WHERE pos_id = $1
		RETURNING revision`

	window := snap.Window()
	var revision int
	err := r.db.QueryRow(ctx, insertRevision,
		id, snap.Name(), snap.RequiresAuthentication(), window.Start(), window.End(), now,
	).Scan(&revision)
	if err != nil {
		return 0, wrapDBErr("failed to append point of sale revision", err)
	}

	const insertRef = `
		INSERT INTO pos_revision_containers (pos_id, revision, container_id, container_revision)
		VALUES ($1, $2, $3, $4)`

	for _, ref := range snap.Containers() {
		if _, err := r.db.Exec(ctx, insertRef, id, revision, ref.ContainerID, ref.Revision); err != nil {
			return 0, wrapDBErr("failed to append point of sale revision reference", err)
		}
	}
	return revision, nil
}

func (r *PointOfSaleRepository) GetRevision(ctx context.Context, id uuid.UUID, revision int) (*shared.PointOfSaleRevisionRecord, error) {
	const query = `
		SELECT pos_id, revision, name, requires_authentication, starts_at, ends_at, created_at
		FROM pos_revisions
		WHERE pos_id = $1 AND revision = $2`

	var rec shared.PointOfSaleRevisionRecord
	err := r.db.QueryRow(ctx, query, id, revision).Scan(
		&rec.PointOfSaleID, &rec.Revision, &rec.Name, &rec.RequiresAuthentication,
		&rec.StartsAt, &rec.EndsAt, &rec.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, markNotFound("point of sale revision not found", err, errs.ErrRevisionNotFound)
		}
		return nil, wrapDBErr("failed to get point of sale revision", err)
	}

	containers, err := r.loadContainerRefs(ctx, id, revision)
	if err != nil {
		return nil, err
	}
	rec.Containers = containers
	return &rec, nil
}

func (r *PointOfSaleRepository) loadContainerRefs(ctx context.Context, id uuid.UUID, revision int) ([]catalog.ContainerRef, error) {
	const query = `
		SELECT container_id, container_revision
		FROM pos_revision_containers
		WHERE pos_id = $1 AND revision = $2
		ORDER BY container_id`

	rows, err := r.db.Query(ctx, query, id, revision)
	if err != nil {
		return nil, wrapDBErr("failed to load point of sale revision references", err)
	}
	defer rows.Close()

	refs := []catalog.ContainerRef{}
	for rows.Next() {
		var ref catalog.ContainerRef
		if err := rows.Scan(&ref.ContainerID, &ref.Revision); err != nil {
			return nil, wrapDBErr("failed to scan point of sale revision reference", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr("failed to iterate point of sale revision references", err)
	}
	return refs, nil
}

func (r *PointOfSaleRepository) CurrentRevisionsReferencingContainer(ctx context.Context, containerID uuid.UUID, revision int) ([]shared.PointOfSaleRevisionRecord, error) {
	const query = `
		SELECT pr.pos_id, pr.revision, pr.name, pr.requires_authentication, pr.starts_at, pr.ends_at, pr.created_at
		FROM pos_revision_containers prc
		JOIN points_of_sale p
			ON p.id = prc.pos_id AND p.current_revision = prc.revision
		JOIN pos_revisions pr
			ON pr.pos_id = prc.pos_id AND pr.revision = prc.revision
		WHERE prc.container_id = $1
			AND prc.container_revision = $2
			AND p.deleted_at IS NULL
		ORDER BY pr.pos_id`

	rows, err := r.db.Query(ctx, query, containerID, revision)
	if err != nil {
		return nil, wrapDBErr("failed to find points of sale referencing container", err)
	}
	defer rows.Close()

	var recs []shared.PointOfSaleRevisionRecord
	for rows.Next() {
		var rec shared.PointOfSaleRevisionRecord
		err := rows.Scan(
			&rec.PointOfSaleID, &rec.Revision, &rec.Name, &rec.RequiresAuthentication,
			&rec.StartsAt, &rec.EndsAt, &rec.CreatedAt,
		)
		if err != nil {
			return nil, wrapDBErr("failed to scan referencing point of sale", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr("failed to iterate referencing points of sale", err)
	}

	for i := range recs {
		containers, err := r.loadContainerRefs(ctx, recs[i].PointOfSaleID, recs[i].Revision)
		if err != nil {
			return nil, err
		}
		recs[i].Containers = containers
	}
	return recs, nil
}

func (r *PointOfSaleRepository) UpsertEdit(ctx context.Context, id uuid.UUID, snap pos.Snapshot, now time.Time) error {
	containers, err := json.Marshal(snap.Containers())
	if err != nil {
		return infra.WrapRepoErr("failed to encode point of sale edit references", err)
	}

	const query = `
		INSERT INTO pos_edits (pos_id, name, requires_authentication, starts_at, ends_at, containers, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (pos_id) DO UPDATE SET
			name = EXCLUDED.name,
			requires_authentication = EXCLUDED.requires_authentication,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			containers = EXCLUDED.containers,
			updated_at = EXCLUDED.updated_at`

	window := snap.Window()
	_, err = r.db.Exec(ctx, query,
		id, snap.Name(), snap.RequiresAuthentication(), window.Start(), window.End(), containers, now,
	)
	if err != nil {
		return wrapDBErr("failed to upsert point of sale edit", err)
	}
	return nil
}

func (r *PointOfSaleRepository) GetEdit(ctx context.Context, id uuid.UUID) (pos.Snapshot, bool, error) {
	const query = `
		SELECT name, requires_authentication, starts_at, ends_at, containers
		FROM pos_edits
		WHERE pos_id = $1`

	var (
		name                   string
		requiresAuthentication bool
		startsAt               time.Time
		endsAt                 time.Time
		containers             []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&name, &requiresAuthentication, &startsAt, &endsAt, &containers)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return pos.Snapshot{}, false, nil
		}
		return pos.Snapshot{}, false, wrapDBErr("failed to get point of sale edit", err)
	}

	var refs []catalog.ContainerRef
	if err := json.Unmarshal(containers, &refs); err != nil {
		return pos.Snapshot{}, false, infra.WrapRepoErr("failed to decode point of sale edit references", err)
	}
	snap := pos.ReconstructSnapshot(name, requiresAuthentication, pos.ReconstructWindow(startsAt, endsAt), refs)
	return snap, true, nil
}

func (r *PointOfSaleRepository) DeleteEdit(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM pos_edits WHERE pos_id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return wrapDBErr("failed to delete point of sale edit", err)
	}
	return nil
}

func (r *PointOfSaleRepository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	const query = `
		UPDATE points_of_sale
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`

	if _, err := r.db.Exec(ctx, query, id, now); err != nil {
		return wrapDBErr("failed to soft delete point of sale", err)
	}
	return nil
}
