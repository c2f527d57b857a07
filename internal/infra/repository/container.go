package repository

import (
	"context"
	"encoding/json"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/domain/container"
	"pos-catalog/internal/infra"
	"pos-catalog/internal/infra/db"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/pkg/pgconv"
	"pos-catalog/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ContainerRepository struct {
	db db.DBTX
}

func NewContainerRepository(dbtx db.DBTX) *ContainerRepository {
	return &ContainerRepository{db: dbtx}
}

func (r *ContainerRepository) CreateHead(ctx context.Context, c *container.Container) error {
	const query = `
		INSERT INTO containers (id, owner_id, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.Exec(ctx, query, c.ID(), c.OwnerID(), c.IsPublic(), c.CreatedAt(), c.UpdatedAt()); err != nil {
		return wrapDBErr("failed to create container head", err)
	}
	return nil
}

func (r *ContainerRepository) GetHead(ctx context.Context, id uuid.UUID) (*shared.ContainerHead, error) {
	return r.scanHead(ctx, id, `
		SELECT id, owner_id, is_public, current_revision, created_at, updated_at, deleted_at
		FROM containers
		WHERE id = $1`)
}

func (r *ContainerRepository) LockHead(ctx context.Context, id uuid.UUID) (*shared.ContainerHead, error) {
	return r.scanHead(ctx, id, `
		SELECT id, owner_id, is_public, current_revision, created_at, updated_at, deleted_at
		FROM containers
		WHERE id = $1
		FOR UPDATE`)
}

func (r *ContainerRepository) scanHead(ctx context.Context, id uuid.UUID, query string) (*shared.ContainerHead, error) {
	var (
		head            shared.ContainerHead
		currentRevision pgtype.Int4
		deletedAt       pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&head.ID, &head.OwnerID, &head.IsPublic, &currentRevision,
		&head.CreatedAt, &head.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, markNotFound("container head not found", err, errs.ErrHeadNotFound)
		}
		return nil, wrapDBErr("failed to get container head", err)
	}
	head.CurrentRevision = pgconv.IntPtrFromPgtype(currentRevision)
	head.DeletedAt = pgconv.TimePtrFromPgtype(deletedAt)
	return &head, nil
}

func (r *ContainerRepository) SetCurrentRevision(ctx context.Context, id uuid.UUID, revision int, now time.Time) error {
	const query = `
		UPDATE containers
		SET current_revision = $2, updated_at = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, revision, now)
	if err != nil {
		return wrapDBErr("failed to set current container revision", err)
	}
	if tag.RowsAffected() == 0 {
		return markNotFound("container head not found", nil, errs.ErrHeadNotFound)
	}
	return nil
}

// AppendRevision writes the revision row plus one reference row per product.
// The reference rows carry a foreign key onto product_revisions, so the
// database rejects a dangling (product, revision) pair even if validation
// upstream is skipped.
func (r *ContainerRepository) AppendRevision(ctx context.Context, id uuid.UUID, snap container.Snapshot, now time.Time) (int, error) {
	const insertRevision = `
		INSERT INTO container_revisions (container_id, revision, name, created_at)
		SELECT $1, COALESCE(MAX(revision), 0) + 1, $2, $3
		FROM container_revisions
		WHERE container_id = $1
		RETURNING revision`

	var revision int
	if err := r.db.QueryRow(ctx, insertRevision, id, snap.Name(), now).Scan(&revision); err != nil {
		return 0, wrapDBErr("failed to append container revision", err)
	}

	const insertRef = `
		INSERT INTO container_revision_products (container_id, revision, product_id, product_revision)
		VALUES ($1, $2, $3, $4)`

	for _, ref := range snap.Products() {
		if _, err := r.db.Exec(ctx, insertRef, id, revision, ref.ProductID, ref.Revision); err != nil {
			return 0, wrapDBErr("failed to append container revision reference", err)
		}
	}
	return revision, nil
}

func (r *ContainerRepository) GetRevision(ctx context.Context, id uuid.UUID, revision int) (*shared.ContainerRevisionRecord, error) {
	const query = `
		SELECT container_id, revision, name, created_at
		FROM container_revisions
		WHERE container_id = $1 AND revision = $2`

	var rec shared.ContainerRevisionRecord
	err := r.db.QueryRow(ctx, query, id, revision).Scan(
		&rec.ContainerID, &rec.Revision, &rec.Name, &rec.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, markNotFound("container revision not found", err, errs.ErrRevisionNotFound)
		}
		return nil, wrapDBErr("failed to get container revision", err)
	}

	products, err := r.loadProductRefs(ctx, id, revision)
	if err != nil {
		return nil, err
	}
	rec.Products = products
	return &rec, nil
}

func (r *ContainerRepository) loadProductRefs(ctx context.Context, id uuid.UUID, revision int) ([]catalog.ProductRef, error) {
	const query = `
		SELECT product_id, product_revision
		FROM container_revision_products
		WHERE container_id = $1 AND revision = $2
		ORDER BY product_id`

	rows, err := r.db.Query(ctx, query, id, revision)
	if err != nil {
		return nil, wrapDBErr("failed to load container revision references", err)
	}
	defer rows.Close()

	refs := []catalog.ProductRef{}
	for rows.Next() {
		var ref catalog.ProductRef
		if err := rows.Scan(&ref.ProductID, &ref.Revision); err != nil {
			return nil, wrapDBErr("failed to scan container revision reference", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr("failed to iterate container revision references", err)
	}
	return refs, nil
}

// CurrentRevisionsReferencingProduct matches only live heads whose current
// revision holds the exact (productID, revision) pair. Historical revisions
// and soft-deleted heads never match.
func (r *ContainerRepository) CurrentRevisionsReferencingProduct(ctx context.Context, productID uuid.UUID, revision int) ([]shared.ContainerRevisionRecord, error) {
	const query = `
		SELECT cr.container_id, cr.revision, cr.name, cr.created_at
		FROM container_revision_products crp
		JOIN containers c
			ON c.id = crp.container_id AND c.current_revision = crp.revision
		JOIN container_revisions cr
			ON cr.container_id = crp.container_id AND cr.revision = crp.revision
		WHERE crp.product_id = $1
			AND crp.product_revision = $2
			AND c.deleted_at IS NULL
		ORDER BY cr.container_id`

	rows, err := r.db.Query(ctx, query, productID, revision)
	if err != nil {
		return nil, wrapDBErr("failed to find containers referencing product", err)
	}
	defer rows.Close()

	var recs []shared.ContainerRevisionRecord
	for rows.Next() {
		var rec shared.ContainerRevisionRecord
		if err := rows.Scan(&rec.ContainerID, &rec.Revision, &rec.Name, &rec.CreatedAt); err != nil {
			return nil, wrapDBErr("failed to scan referencing container", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr("failed to iterate referencing containers", err)
	}

	for i := range recs {
		products, err := r.loadProductRefs(ctx, recs[i].ContainerID, recs[i].Revision)
		if err != nil {
			return nil, err
		}
		recs[i].Products = products
	}
	return recs, nil
}

func (r *ContainerRepository) UpsertEdit(ctx context.Context, id uuid.UUID, snap container.Snapshot, now time.Time) error {
	products, err := json.Marshal(snap.Products())
	if err != nil {
		return infra.WrapRepoErr("failed to encode container edit references", err)
	}

	const query = `
		INSERT INTO container_edits (container_id, name, products, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (container_id) DO UPDATE SET
			name = EXCLUDED.name,
			products = EXCLUDED.products,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.Exec(ctx, query, id, snap.Name(), products, now); err != nil {
		return wrapDBErr("failed to upsert container edit", err)
	}
	return nil
}

func (r *ContainerRepository) GetEdit(ctx context.Context, id uuid.UUID) (container.Snapshot, bool, error) {
	const query = `
		SELECT name, products
		FROM container_edits
		WHERE container_id = $1`

	var (
		name     string
		products []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&name, &products)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return container.Snapshot{}, false, nil
		}
		return container.Snapshot{}, false, wrapDBErr("failed to get container edit", err)
	}

	var refs []catalog.ProductRef
	if err := json.Unmarshal(products, &refs); err != nil {
		return container.Snapshot{}, false, infra.WrapRepoErr("failed to decode container edit references", err)
	}
	return container.ReconstructSnapshot(name, refs), true, nil
}

func (r *ContainerRepository) DeleteEdit(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM container_edits WHERE container_id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return wrapDBErr("failed to delete container edit", err)
	}
	return nil
}

func (r *ContainerRepository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	const query = `
		UPDATE containers
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`

	if _, err := r.db.Exec(ctx, query, id, now); err != nil {
		return wrapDBErr("failed to soft delete container", err)
	}
	return nil
}
