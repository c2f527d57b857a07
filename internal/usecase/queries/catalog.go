package queries

import (
	"context"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read-side ports, one per catalog level. Implementations return
// errs.ErrHeadNotFound / errs.ErrRevisionNotFound on absence; every method
// is a pure read.
type ProductReadStore interface {
	ProductHead(ctx context.Context, id uuid.UUID) (*ProductHeadView, error)
	ProductRevision(ctx context.Context, id uuid.UUID, revision int) (*ProductRevisionView, error)
	ProductRevisions(ctx context.Context, id uuid.UUID) ([]ProductRevisionView, error)
	PendingProductEdit(ctx context.Context, id uuid.UUID) (*ProductEditView, bool, error)
}

type ContainerReadStore interface {
	ContainerHead(ctx context.Context, id uuid.UUID) (*ContainerHeadView, error)
	ContainerRevision(ctx context.Context, id uuid.UUID, revision int) (*ContainerRevisionView, error)
	ContainerRevisions(ctx context.Context, id uuid.UUID) ([]ContainerRevisionView, error)
	PendingContainerEdit(ctx context.Context, id uuid.UUID) (*ContainerEditView, bool, error)
}

type PointOfSaleReadStore interface {
	PointOfSaleHead(ctx context.Context, id uuid.UUID) (*PointOfSaleHeadView, error)
	PointOfSaleRevision(ctx context.Context, id uuid.UUID, revision int) (*PointOfSaleRevisionView, error)
	PointOfSaleRevisions(ctx context.Context, id uuid.UUID) ([]PointOfSaleRevisionView, error)
	PendingPointOfSaleEdit(ctx context.Context, id uuid.UUID) (*PointOfSaleEditView, bool, error)
}

// CatalogQueries answers "what is X now", "what was X at revision R" and
// "may U see container C". Current* hides soft-deleted heads and drafts;
// *AtRevision stays readable even for deleted heads so past transactions
// can always be replayed.
type CatalogQueries interface {
	CurrentProduct(ctx context.Context, id uuid.UUID) (*ProductView, error)
	ProductAtRevision(ctx context.Context, id uuid.UUID, revision int) (*ProductView, error)
	ProductRevisions(ctx context.Context, id uuid.UUID) ([]ProductRevisionView, error)
	PendingProductEdit(ctx context.Context, id uuid.UUID) (*ProductEditView, bool, error)

	CurrentContainer(ctx context.Context, id uuid.UUID) (*ContainerView, error)
	ContainerAtRevision(ctx context.Context, id uuid.UUID, revision int) (*ContainerView, error)
	ContainerRevisions(ctx context.Context, id uuid.UUID) ([]ContainerRevisionView, error)
	PendingContainerEdit(ctx context.Context, id uuid.UUID) (*ContainerEditView, bool, error)

	CurrentPointOfSale(ctx context.Context, id uuid.UUID) (*PointOfSaleView, error)
	PointOfSaleAtRevision(ctx context.Context, id uuid.UUID, revision int) (*PointOfSaleView, error)
	PointOfSaleRevisions(ctx context.Context, id uuid.UUID) ([]PointOfSaleRevisionView, error)
	PendingPointOfSaleEdit(ctx context.Context, id uuid.UUID) (*PointOfSaleEditView, bool, error)

	CanView(ctx context.Context, userID, containerID uuid.UUID) (catalog.Visibility, error)
}

type catalogQueriesImpl struct {
	products     ProductReadStore
	containers   ContainerReadStore
	pointsOfSale PointOfSaleReadStore
}

func NewCatalogQueries(products ProductReadStore, containers ContainerReadStore, pointsOfSale PointOfSaleReadStore) CatalogQueries {
	return &catalogQueriesImpl{
		products:     products,
		containers:   containers,
		pointsOfSale: pointsOfSale,
	}
}

func (q *catalogQueriesImpl) CurrentProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	head, err := q.products.ProductHead(ctx, id)
	if err != nil {
		return nil, err
	}
	if head.DeletedAt != nil {
		return nil, errs.ErrHeadNotFound
	}
	if head.CurrentRevision == nil {
		return nil, errs.ErrNoCurrentRevision
	}
	return q.productView(ctx, head, *head.CurrentRevision)
}

func (q *catalogQueriesImpl) ProductAtRevision(ctx context.Context, id uuid.UUID, revision int) (*ProductView, error) {
	head, err := q.products.ProductHead(ctx, id)
	if err != nil {
		return nil, err
	}
	return q.productView(ctx, head, revision)
}

func (q *catalogQueriesImpl) productView(ctx context.Context, head *ProductHeadView, revision int) (*ProductView, error) {
	rev, err := q.products.ProductRevision(ctx, head.ID, revision)
	if err != nil {
		return nil, err
	}
	return &ProductView{
		ID:                head.ID,
		OwnerID:           head.OwnerID,
		Revision:          rev.Revision,
		Name:              rev.Name,
		PriceCents:        rev.PriceCents,
		VATGroupID:        rev.VATGroupID,
		CategoryID:        rev.CategoryID,
		AlcoholPercentage: rev.AlcoholPercentage,
		ImageRef:          rev.ImageRef,
	}, nil
}

func (q *catalogQueriesImpl) ProductRevisions(ctx context.Context, id uuid.UUID) ([]ProductRevisionView, error) {
	if _, err := q.products.ProductHead(ctx, id); err != nil {
		return nil, err
	}
	return q.products.ProductRevisions(ctx, id)
}

func (q *catalogQueriesImpl) PendingProductEdit(ctx context.Context, id uuid.UUID) (*ProductEditView, bool, error) {
	if _, err := q.products.ProductHead(ctx, id); err != nil {
		return nil, false, err
	}
	return q.products.PendingProductEdit(ctx, id)
}

func (q *catalogQueriesImpl) CurrentContainer(ctx context.Context, id uuid.UUID) (*ContainerView, error) {
	head, err := q.containers.ContainerHead(ctx, id)
	if err != nil {
		return nil, err
	}
	if head.DeletedAt != nil {
		return nil, errs.ErrHeadNotFound
	}
	if head.CurrentRevision == nil {
		return nil, errs.ErrNoCurrentRevision
	}
	return q.containerView(ctx, head, *head.CurrentRevision)
}

func (q *catalogQueriesImpl) ContainerAtRevision(ctx context.Context, id uuid.UUID, revision int) (*ContainerView, error) {
	head, err := q.containers.ContainerHead(ctx, id)
	if err != nil {
		return nil, err
	}
	return q.containerView(ctx, head, revision)
}

func (q *catalogQueriesImpl) containerView(ctx context.Context, head *ContainerHeadView, revision int) (*ContainerView, error) {
	rev, err := q.containers.ContainerRevision(ctx, head.ID, revision)
	if err != nil {
		return nil, err
	}
	return &ContainerView{
		ID:       head.ID,
		OwnerID:  head.OwnerID,
		IsPublic: head.IsPublic,
		Revision: rev.Revision,
		Name:     rev.Name,
		Products: rev.Products,
	}, nil
}

func (q *catalogQueriesImpl) ContainerRevisions(ctx context.Context, id uuid.UUID) ([]ContainerRevisionView, error) {
	if _, err := q.containers.ContainerHead(ctx, id); err != nil {
		return nil, err
	}
	return q.containers.ContainerRevisions(ctx, id)
}

func (q *catalogQueriesImpl) PendingContainerEdit(ctx context.Context, id uuid.UUID) (*ContainerEditView, bool, error) {
	if _, err := q.containers.ContainerHead(ctx, id); err != nil {
		return nil, false, err
	}
	return q.containers.PendingContainerEdit(ctx, id)
}

func (q *catalogQueriesImpl) CurrentPointOfSale(ctx context.Context, id uuid.UUID) (*PointOfSaleView, error) {
	head, err := q.pointsOfSale.PointOfSaleHead(ctx, id)
	if err != nil {
		return nil, err
	}
	if head.DeletedAt != nil {
		return nil, errs.ErrHeadNotFound
	}
	if head.CurrentRevision == nil {
		return nil, errs.ErrNoCurrentRevision
	}
	return q.pointOfSaleView(ctx, head, *head.CurrentRevision)
}

func (q *catalogQueriesImpl) PointOfSaleAtRevision(ctx context.Context, id uuid.UUID, revision int) (*PointOfSaleView, error) {
	head, err := q.pointsOfSale.PointOfSaleHead(ctx, id)
	if err != nil {
		return nil, err
	}
	return q.pointOfSaleView(ctx, head, revision)
}

func (q *catalogQueriesImpl) pointOfSaleView(ctx context.Context, head *PointOfSaleHeadView, revision int) (*PointOfSaleView, error) {
	rev, err := q.pointsOfSale.PointOfSaleRevision(ctx, head.ID, revision)
	if err != nil {
		return nil, err
	}
	return &PointOfSaleView{
		ID:                     head.ID,
		OwnerID:                head.OwnerID,
		Revision:               rev.Revision,
		Name:                   rev.Name,
		RequiresAuthentication: rev.RequiresAuthentication,
		StartsAt:               rev.StartsAt,
		EndsAt:                 rev.EndsAt,
		Containers:             rev.Containers,
	}, nil
}

func (q *catalogQueriesImpl) PointOfSaleRevisions(ctx context.Context, id uuid.UUID) ([]PointOfSaleRevisionView, error) {
	if _, err := q.pointsOfSale.PointOfSaleHead(ctx, id); err != nil {
		return nil, err
	}
	return q.pointsOfSale.PointOfSaleRevisions(ctx, id)
}

func (q *catalogQueriesImpl) PendingPointOfSaleEdit(ctx context.Context, id uuid.UUID) (*PointOfSaleEditView, bool, error) {
	if _, err := q.pointsOfSale.PointOfSaleHead(ctx, id); err != nil {
		return nil, false, err
	}
	return q.pointsOfSale.PendingPointOfSaleEdit(ctx, id)
}

func (q *catalogQueriesImpl) CanView(ctx context.Context, userID, containerID uuid.UUID) (catalog.Visibility, error) {
	head, err := q.containers.ContainerHead(ctx, containerID)
	if err != nil {
		return catalog.Visibility{}, err
	}
	if head.DeletedAt != nil {
		return catalog.Visibility{}, errs.ErrHeadNotFound
	}
	return catalog.Visibility{
		Own:    head.OwnerID == userID,
		Public: head.IsPublic,
	}, nil
}
