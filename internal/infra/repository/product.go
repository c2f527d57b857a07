package repository

import (
	"context"
	"time"

	"pos-catalog/internal/domain/product"
	"pos-catalog/internal/infra/db"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/pkg/pgconv"
	"pos-catalog/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductRepository struct {
	db db.DBTX
}

func NewProductRepository(dbtx db.DBTX) *ProductRepository {
	return &ProductRepository{db: dbtx}
}

func (r *ProductRepository) CreateHead(ctx context.Context, p *product.Product) error {
	const query = `
		INSERT INTO products (id, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, p.ID(), p.OwnerID(), p.CreatedAt(), p.UpdatedAt()); err != nil {
		return wrapDBErr("failed to create product head", err)
	}
	return nil
}

func (r *ProductRepository) GetHead(ctx context.Context, id uuid.UUID) (*shared.ProductHead, error) {
	return r.scanHead(ctx, id, `
		SELECT id, owner_id, current_revision, created_at, updated_at, deleted_at
		FROM products
		WHERE id = $1`)
}

// LockHead takes the per-head row lock that serializes concurrent promotions.
func (r *ProductRepository) LockHead(ctx context.Context, id uuid.UUID) (*shared.ProductHead, error) {
	return r.scanHead(ctx, id, `
		SELECT id, owner_id, current_revision, created_at, updated_at, deleted_at
		FROM products
		WHERE id = $1
		FOR UPDATE`)
}

func (r *ProductRepository) scanHead(ctx context.Context, id uuid.UUID, query string) (*shared.ProductHead, error) {
	var (
		head            shared.ProductHead
		currentRevision pgtype.Int4
		deletedAt       pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&head.ID, &head.OwnerID, &currentRevision,
		&head.CreatedAt, &head.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, markNotFound("product head not found", err, errs.ErrHeadNotFound)
		}
		return nil, wrapDBErr("failed to get product head", err)
	}
	head.CurrentRevision = pgconv.IntPtrFromPgtype(currentRevision)
	head.DeletedAt = pgconv.TimePtrFromPgtype(deletedAt)
	return &head, nil
}

func (r *ProductRepository) SetCurrentRevision(ctx context.Context, id uuid.UUID, revision int, now time.Time) error {
	const query = `
		UPDATE products
		SET current_revision = $2, updated_at = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, revision, now)
	if err != nil {
		return wrapDBErr("failed to set current product revision", err)
	}
	if tag.RowsAffected() == 0 {
		return markNotFound("product head not found", nil, errs.ErrHeadNotFound)
	}
	return nil
}

// AppendRevision assigns max+1 under the head row lock the caller already
// holds, so numbering is gapless per head.
func (r *ProductRepository) AppendRevision(ctx context.Context, id uuid.UUID, snap product.Snapshot, now time.Time) (int, error) {
	const query = `
		INSERT INTO product_revisions
			(product_id, revision, name, price_cents, vat_group_id, category_id, alcohol_percentage, image_ref, created_at)
		SELECT $1, COALESCE(MAX(revision), 0) + 1, $2, $3, $4, $5, $6, $7, $8
		FROM product_revisions
		WHERE product_id = $1
		RETURNING revision`

	var revision int
	err := r.db.QueryRow(ctx, query,
		id, snap.Name(), snap.PriceCents(), snap.VATGroupID(), snap.CategoryID(),
		snap.AlcoholPercentage(), pgconv.StringPtrToPgtype(snap.ImageRef()), now,
	).Scan(&revision)
	if err != nil {
		return 0, wrapDBErr("failed to append product revision", err)
	}
	return revision, nil
}

func (r *ProductRepository) GetRevision(ctx context.Context, id uuid.UUID, revision int) (*shared.ProductRevisionRecord, error) {
	const query = `
		SELECT product_id, revision, name, price_cents, vat_group_id, category_id, alcohol_percentage, image_ref, created_at
		FROM product_revisions
		WHERE product_id = $1 AND revision = $2`

	var (
		rec      shared.ProductRevisionRecord
		imageRef pgtype.Text
	)
	err := r.db.QueryRow(ctx, query, id, revision).Scan(
		&rec.ProductID, &rec.Revision, &rec.Name, &rec.PriceCents,
		&rec.VATGroupID, &rec.CategoryID, &rec.AlcoholPercentage,
		&imageRef, &rec.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, markNotFound("product revision not found", err, errs.ErrRevisionNotFound)
		}
		return nil, wrapDBErr("failed to get product revision", err)
	}
	rec.ImageRef = pgconv.StringPtrFromPgtype(imageRef)
	return &rec, nil
}

func (r *ProductRepository) UpsertEdit(ctx context.Context, id uuid.UUID, snap product.Snapshot, now time.Time) error {
	const query = `
		INSERT INTO product_edits
			(product_id, name, price_cents, vat_group_id, category_id, alcohol_percentage, image_ref, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id) DO UPDATE SET
			name = EXCLUDED.name,
			price_cents = EXCLUDED.price_cents,
			vat_group_id = EXCLUDED.vat_group_id,
			category_id = EXCLUDED.category_id,
			alcohol_percentage = EXCLUDED.alcohol_percentage,
			image_ref = EXCLUDED.image_ref,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		id, snap.Name(), snap.PriceCents(), snap.VATGroupID(), snap.CategoryID(),
		snap.AlcoholPercentage(), pgconv.StringPtrToPgtype(snap.ImageRef()), now,
	)
	if err != nil {
		return wrapDBErr("failed to upsert product edit", err)
	}
	return nil
}

func (r *ProductRepository) GetEdit(ctx context.Context, id uuid.UUID) (product.Snapshot, bool, error) {
	const query = `
		SELECT name, price_cents, vat_group_id, category_id, alcohol_percentage, image_ref
		FROM product_edits
		WHERE product_id = $1`

	var (
		name              string
		priceCents        int64
		vatGroupID        uuid.UUID
		categoryID        uuid.UUID
		alcoholPercentage float64
		imageRef          pgtype.Text
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&name, &priceCents, &vatGroupID, &categoryID, &alcoholPercentage, &imageRef,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return product.Snapshot{}, false, nil
		}
		return product.Snapshot{}, false, wrapDBErr("failed to get product edit", err)
	}

	snap := product.ReconstructSnapshot(
		name, priceCents, vatGroupID, categoryID, alcoholPercentage,
		pgconv.StringPtrFromPgtype(imageRef),
	)
	return snap, true, nil
}

func (r *ProductRepository) DeleteEdit(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM product_edits WHERE product_id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return wrapDBErr("failed to delete product edit", err)
	}
	return nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	const query = `
		UPDATE products
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`

	if _, err := r.db.Exec(ctx, query, id, now); err != nil {
		return wrapDBErr("failed to soft delete product", err)
	}
	return nil
}
