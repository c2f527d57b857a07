package queries

import (
	"time"

	"pos-catalog/internal/domain/catalog"

	"github.com/google/uuid"
)

// Head rows as the read side sees them.
type ProductHeadView struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	CurrentRevision *int       `json:"current_revision"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

type ContainerHeadView struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	IsPublic        bool       `json:"is_public"`
	CurrentRevision *int       `json:"current_revision"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

type PointOfSaleHeadView struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	CurrentRevision *int       `json:"current_revision"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// One revision row.
type ProductRevisionView struct {
	ProductID         uuid.UUID `json:"product_id"`
	Revision          int       `json:"revision"`
	Name              string    `json:"name"`
	PriceCents        int64     `json:"price_cents"`
	VATGroupID        uuid.UUID `json:"vat_group_id"`
	CategoryID        uuid.UUID `json:"category_id"`
	AlcoholPercentage float64   `json:"alcohol_percentage"`
	ImageRef          *string   `json:"image_ref,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type ContainerRevisionView struct {
	ContainerID uuid.UUID            `json:"container_id"`
	Revision    int                  `json:"revision"`
	Name        string               `json:"name"`
	Products    []catalog.ProductRef `json:"products"`
	CreatedAt   time.Time            `json:"created_at"`
}

type PointOfSaleRevisionView struct {
	PointOfSaleID          uuid.UUID              `json:"point_of_sale_id"`
	Revision               int                    `json:"revision"`
	Name                   string                 `json:"name"`
	RequiresAuthentication bool                   `json:"requires_authentication"`
	StartsAt               time.Time              `json:"starts_at"`
	EndsAt                 time.Time              `json:"ends_at"`
	Containers             []catalog.ContainerRef `json:"containers"`
	CreatedAt              time.Time              `json:"created_at"`
}

// Head identity joined with one revision; the shape handed to controllers.
type ProductView struct {
	ID                uuid.UUID `json:"id"`
	OwnerID           uuid.UUID `json:"owner_id"`
	Revision          int       `json:"revision"`
	Name              string    `json:"name"`
	PriceCents        int64     `json:"price_cents"`
	VATGroupID        uuid.UUID `json:"vat_group_id"`
	CategoryID        uuid.UUID `json:"category_id"`
	AlcoholPercentage float64   `json:"alcohol_percentage"`
	ImageRef          *string   `json:"image_ref,omitempty"`
}

type ContainerView struct {
	ID       uuid.UUID            `json:"id"`
	OwnerID  uuid.UUID            `json:"owner_id"`
	IsPublic bool                 `json:"is_public"`
	Revision int                  `json:"revision"`
	Name     string               `json:"name"`
	Products []catalog.ProductRef `json:"products"`
}

type PointOfSaleView struct {
	ID                     uuid.UUID              `json:"id"`
	OwnerID                uuid.UUID              `json:"owner_id"`
	Revision               int                    `json:"revision"`
	Name                   string                 `json:"name"`
	RequiresAuthentication bool                   `json:"requires_authentication"`
	StartsAt               time.Time              `json:"starts_at"`
	EndsAt                 time.Time              `json:"ends_at"`
	Containers             []catalog.ContainerRef `json:"containers"`
}

// Pending (staged, unapproved) edits.
type ProductEditView struct {
	ProductID         uuid.UUID `json:"product_id"`
	Name              string    `json:"name"`
	PriceCents        int64     `json:"price_cents"`
	VATGroupID        uuid.UUID `json:"vat_group_id"`
	CategoryID        uuid.UUID `json:"category_id"`
	AlcoholPercentage float64   `json:"alcohol_percentage"`
	ImageRef          *string   `json:"image_ref,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ContainerEditView struct {
	ContainerID uuid.UUID            `json:"container_id"`
	Name        string               `json:"name"`
	Products    []catalog.ProductRef `json:"products"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type PointOfSaleEditView struct {
	PointOfSaleID          uuid.UUID              `json:"point_of_sale_id"`
	Name                   string                 `json:"name"`
	RequiresAuthentication bool                   `json:"requires_authentication"`
	StartsAt               time.Time              `json:"starts_at"`
	EndsAt                 time.Time              `json:"ends_at"`
	Containers             []catalog.ContainerRef `json:"containers"`
	UpdatedAt              time.Time              `json:"updated_at"`
}
