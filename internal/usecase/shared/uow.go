package shared

import (
	"context"
	"time"

	"pos-catalog/internal/domain/container"
	"pos-catalog/internal/domain/pos"
	"pos-catalog/internal/domain/product"

	"github.com/google/uuid"
)

// UnitOfWork runs a function inside one ACID transaction. A promotion and
// its entire propagation cascade either commit together or roll back
// together; the implementation retries serialization failures a bounded
// number of times before surfacing errs.ErrPromotionConflict.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Products() ProductRepository
	Containers() ContainerRepository
	PointsOfSale() PointOfSaleRepository
}

// ProductRepository is the write-side port for the product hierarchy.
// LockHead must acquire the row lock that serializes concurrent promotions
// of the same head; SetCurrentRevision is called exclusively by the
// promotion flow.
type ProductRepository interface {
	CreateHead(ctx context.Context, p *product.Product) error
	GetHead(ctx context.Context, id uuid.UUID) (*ProductHead, error)
	LockHead(ctx context.Context, id uuid.UUID) (*ProductHead, error)
	SetCurrentRevision(ctx context.Context, id uuid.UUID, revision int, now time.Time) error
	AppendRevision(ctx context.Context, id uuid.UUID, snap product.Snapshot, now time.Time) (int, error)
	GetRevision(ctx context.Context, id uuid.UUID, revision int) (*ProductRevisionRecord, error)
	UpsertEdit(ctx context.Context, id uuid.UUID, snap product.Snapshot, now time.Time) error
	GetEdit(ctx context.Context, id uuid.UUID) (product.Snapshot, bool, error)
	DeleteEdit(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error
}

type ContainerRepository interface {
	CreateHead(ctx context.Context, c *container.Container) error
	GetHead(ctx context.Context, id uuid.UUID) (*ContainerHead, error)
	LockHead(ctx context.Context, id uuid.UUID) (*ContainerHead, error)
	SetCurrentRevision(ctx context.Context, id uuid.UUID, revision int, now time.Time) error
	AppendRevision(ctx context.Context, id uuid.UUID, snap container.Snapshot, now time.Time) (int, error)
	GetRevision(ctx context.Context, id uuid.UUID, revision int) (*ContainerRevisionRecord, error)
	UpsertEdit(ctx context.Context, id uuid.UUID, snap container.Snapshot, now time.Time) error
	GetEdit(ctx context.Context, id uuid.UUID) (container.Snapshot, bool, error)
	DeleteEdit(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error

	// CurrentRevisionsReferencingProduct returns the current revision of
	// every live container whose current revision holds the exact pair
	// (productID, revision). Non-current (historical) revisions never match.
	CurrentRevisionsReferencingProduct(ctx context.Context, productID uuid.UUID, revision int) ([]ContainerRevisionRecord, error)
}

type PointOfSaleRepository interface {
	CreateHead(ctx context.Context, p *pos.PointOfSale) error
	GetHead(ctx context.Context, id uuid.UUID) (*PointOfSaleHead, error)
	LockHead(ctx context.Context, id uuid.UUID) (*PointOfSaleHead, error)
	SetCurrentRevision(ctx context.Context, id uuid.UUID, revision int, now time.Time) error
	AppendRevision(ctx context.Context, id uuid.UUID, snap pos.Snapshot, now time.Time) (int, error)
	GetRevision(ctx context.Context, id uuid.UUID, revision int) (*PointOfSaleRevisionRecord, error)
	UpsertEdit(ctx context.Context, id uuid.UUID, snap pos.Snapshot, now time.Time) error
	GetEdit(ctx context.Context, id uuid.UUID) (pos.Snapshot, bool, error)
	DeleteEdit(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error

	CurrentRevisionsReferencingContainer(ctx context.Context, containerID uuid.UUID, revision int) ([]PointOfSaleRevisionRecord, error)
}
