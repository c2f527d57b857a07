package readstore

import (
	"context"

	"pos-catalog/internal/infra/db"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/pkg/pgconv"
	"pos-catalog/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(dbtx db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: dbtx}
}

func (s *ProductReadStore) ProductHead(ctx context.Context, id uuid.UUID) (*queries.ProductHeadView, error) {
	const query = `
		SELECT id, owner_id, current_revision, created_at, updated_at, deleted_at
		FROM products
		WHERE id = $1`

	var (
		view            queries.ProductHeadView
		currentRevision pgtype.Int4
		deletedAt       pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.OwnerID, &currentRevision,
		&view.CreatedAt, &view.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(errs.Wrap(err, "product head not found"), errs.ErrHeadNotFound)
		}
		return nil, errs.Wrap(err, "failed to read product head")
	}
	view.CurrentRevision = pgconv.IntPtrFromPgtype(currentRevision)
	view.DeletedAt = pgconv.TimePtrFromPgtype(deletedAt)
	return &view, nil
}

func (s *ProductReadStore) ProductRevision(ctx context.Context, id uuid.UUID, revision int) (*queries.ProductRevisionView, error) {
	const query = `
		SELECT product_id, revision, name, price_cents, vat_group_id, category_id, alcohol_percentage, image_ref, created_at
		FROM product_revisions
		WHERE product_id = $1 AND revision = $2`

	var (
		view     queries.ProductRevisionView
		imageRef pgtype.Text
	)
	err := s.db.QueryRow(ctx, query, id, revision).Scan(
		&view.ProductID, &view.Revision, &view.Name, &view.PriceCents,
		&view.VATGroupID, &view.CategoryID, &view.AlcoholPercentage,
		&imageRef, &view.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(errs.Wrap(err, "product revision not found"), errs.ErrRevisionNotFound)
		}
		return nil, errs.Wrap(err, "failed to read product revision")
	}
	view.ImageRef = pgconv.StringPtrFromPgtype(imageRef)
	return &view, nil
}

func (s *ProductReadStore) ProductRevisions(ctx context.Context, id uuid.UUID) ([]queries.ProductRevisionView, error) {
	const query = `
		SELECT product_id, revision, name, price_cents, vat_group_id, category_id, alcohol_percentage, image_ref, created_at
		FROM product_revisions
		WHERE product_id = $1
		ORDER BY revision`

	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list product revisions")
	}
	defer rows.Close()

	var views []queries.ProductRevisionView
	for rows.Next() {
		var (
			view     queries.ProductRevisionView
			imageRef pgtype.Text
		)
		err := rows.Scan(
			&view.ProductID, &view.Revision, &view.Name, &view.PriceCents,
			&view.VATGroupID, &view.CategoryID, &view.AlcoholPercentage,
			&imageRef, &view.CreatedAt,
		)
		if err != nil {
			return nil, errs.Wrap(err, "failed to scan product revision")
		}
		view.ImageRef = pgconv.StringPtrFromPgtype(imageRef)
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "failed to iterate product revisions")
	}
	return views, nil
}

func (s *ProductReadStore) PendingProductEdit(ctx context.Context, id uuid.UUID) (*queries.ProductEditView, bool, error) {
	const query = `
		SELECT product_id, name, price_cents, vat_group_id, category_id, alcohol_percentage, image_ref, updated_at
		FROM product_edits
		WHERE product_id = $1`

	var (
		view     queries.ProductEditView
		imageRef pgtype.Text
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.ProductID, &view.Name, &view.PriceCents, &view.VATGroupID,
		&view.CategoryID, &view.AlcoholPercentage, &imageRef, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, errs.Wrap(err, "failed to read pending product edit")
	}
	view.ImageRef = pgconv.StringPtrFromPgtype(imageRef)
	return &view, true, nil
}
