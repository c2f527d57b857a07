package shared

import (
	"time"

	"pos-catalog/internal/domain/catalog"

	"github.com/google/uuid"
)

// Write-side snapshots of head rows. CurrentRevision is nil for drafts that
// were never approved.
type ProductHead struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	CurrentRevision *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

type ContainerHead struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	IsPublic        bool
	CurrentRevision *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

type PointOfSaleHead struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	CurrentRevision *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// Immutable revision rows as stored.
type ProductRevisionRecord struct {
	ProductID         uuid.UUID
	Revision          int
	Name              string
	PriceCents        int64
	VATGroupID        uuid.UUID
	CategoryID        uuid.UUID
	AlcoholPercentage float64
	ImageRef          *string
	CreatedAt         time.Time
}

type ContainerRevisionRecord struct {
	ContainerID uuid.UUID
	Revision    int
	Name        string
	Products    []catalog.ProductRef
	CreatedAt   time.Time
}

type PointOfSaleRevisionRecord struct {
	PointOfSaleID          uuid.UUID
	Revision               int
	Name                   string
	RequiresAuthentication bool
	StartsAt               time.Time
	EndsAt                 time.Time
	Containers             []catalog.ContainerRef
	CreatedAt              time.Time
}
