package product

import (
	"time"

	"pos-catalog/internal/domain/catalog"

	"github.com/google/uuid"
)

// Product is the mutable head record. Everything a buyer sees lives in
// immutable revision snapshots; the head only carries identity, ownership
// and the pointer to the current approved revision.
type Product struct {
	id              uuid.UUID
	ownerID         uuid.UUID
	currentRevision *int
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

func NewProduct(ownerID uuid.UUID, now time.Time) *Product {
	return &Product{
		id:        uuid.New(),
		ownerID:   ownerID,
		createdAt: now,
		updatedAt: now,
	}
}

func Reconstruct(
	id, ownerID uuid.UUID,
	currentRevision *int,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
) *Product {
	return &Product{
		id:              id,
		ownerID:         ownerID,
		currentRevision: currentRevision,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		deletedAt:       deletedAt,
	}
}

func (p *Product) ID() uuid.UUID        { return p.id }
func (p *Product) OwnerID() uuid.UUID   { return p.ownerID }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// CurrentRevision returns the approved revision number, or false while the
// product is an unapproved draft.
func (p *Product) CurrentRevision() (int, bool) {
	if p.currentRevision == nil {
		return 0, false
	}
	return *p.currentRevision, true
}

func (p *Product) IsDeleted() bool {
	return p.deletedAt != nil
}

// Snapshot is one validated revision payload. It never changes after
// construction; promoting it assigns the revision number.
type Snapshot struct {
	name              catalog.Name
	price             Money
	vatGroupID        uuid.UUID
	categoryID        uuid.UUID
	alcoholPercentage AlcoholPercentage
	imageRef          *string
}

func NewSnapshot(
	name string,
	priceCents int64,
	vatGroupID, categoryID uuid.UUID,
	alcoholPercentage float64,
	imageRef *string,
) (Snapshot, error) {
	n, err := catalog.NewName(name)
	if err != nil {
		return Snapshot{}, err
	}
	price, err := NewMoney(priceCents)
	if err != nil {
		return Snapshot{}, err
	}
	if vatGroupID == uuid.Nil {
		return Snapshot{}, ErrMissingVATGroup
	}
	if categoryID == uuid.Nil {
		return Snapshot{}, ErrMissingCategory
	}
	alcohol, err := NewAlcoholPercentage(alcoholPercentage)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		name:              n,
		price:             price,
		vatGroupID:        vatGroupID,
		categoryID:        categoryID,
		alcoholPercentage: alcohol,
		imageRef:          imageRef,
	}, nil
}

// ReconstructSnapshot rebuilds a snapshot from a trusted store row.
func ReconstructSnapshot(
	name string,
	priceCents int64,
	vatGroupID, categoryID uuid.UUID,
	alcoholPercentage float64,
	imageRef *string,
) Snapshot {
	return Snapshot{
		name:              catalog.ReconstructName(name),
		price:             Money{cents: priceCents},
		vatGroupID:        vatGroupID,
		categoryID:        categoryID,
		alcoholPercentage: AlcoholPercentage{value: alcoholPercentage},
		imageRef:          imageRef,
	}
}

func (s Snapshot) Name() string               { return s.name.String() }
func (s Snapshot) PriceCents() int64          { return s.price.Cents() }
func (s Snapshot) VATGroupID() uuid.UUID      { return s.vatGroupID }
func (s Snapshot) CategoryID() uuid.UUID      { return s.categoryID }
func (s Snapshot) AlcoholPercentage() float64 { return s.alcoholPercentage.Value() }
func (s Snapshot) ImageRef() *string          { return s.imageRef }
