package container

import (
	"bytes"
	"slices"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrDuplicateProductRef    = errs.New("container references the same product twice")
	ErrInvalidProductRevision = errs.New("product reference revision must be at least 1")
)

// Container is the mutable head record for an assortment of products.
type Container struct {
	id              uuid.UUID
	ownerID         uuid.UUID
	isPublic        bool
	currentRevision *int
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

func NewContainer(ownerID uuid.UUID, isPublic bool, now time.Time) *Container {
	return &Container{
		id:        uuid.New(),
		ownerID:   ownerID,
		isPublic:  isPublic,
		createdAt: now,
		updatedAt: now,
	}
}

func Reconstruct(
	id, ownerID uuid.UUID,
	isPublic bool,
	currentRevision *int,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
) *Container {
	return &Container{
		id:              id,
		ownerID:         ownerID,
		isPublic:        isPublic,
		currentRevision: currentRevision,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		deletedAt:       deletedAt,
	}
}

func (c *Container) ID() uuid.UUID        { return c.id }
func (c *Container) OwnerID() uuid.UUID   { return c.ownerID }
func (c *Container) IsPublic() bool       { return c.isPublic }
func (c *Container) CreatedAt() time.Time { return c.createdAt }
func (c *Container) UpdatedAt() time.Time { return c.updatedAt }

func (c *Container) CurrentRevision() (int, bool) {
	if c.currentRevision == nil {
		return 0, false
	}
	return *c.currentRevision, true
}

func (c *Container) IsDeleted() bool {
	return c.deletedAt != nil
}

// VisibleTo reports the two visibility primitives for userID. Broader
// policy (organization delegation, roles) is composed by the caller.
func (c *Container) VisibleTo(userID uuid.UUID) catalog.Visibility {
	return catalog.Visibility{
		Own:    c.ownerID == userID,
		Public: c.isPublic,
	}
}

// Snapshot is one validated revision payload: a name plus the exact
// (product, revision) pairs the container offers.
type Snapshot struct {
	name     catalog.Name
	products []catalog.ProductRef
}

func NewSnapshot(name string, products []catalog.ProductRef) (Snapshot, error) {
	n, err := catalog.NewName(name)
	if err != nil {
		return Snapshot{}, err
	}
	refs := slices.Clone(products)
	seen := make(map[uuid.UUID]struct{}, len(refs))
	for _, ref := range refs {
		if ref.Revision < 1 {
			return Snapshot{}, ErrInvalidProductRevision
		}
		if _, dup := seen[ref.ProductID]; dup {
			return Snapshot{}, ErrDuplicateProductRef
		}
		seen[ref.ProductID] = struct{}{}
	}
	sortProductRefs(refs)
	return Snapshot{name: n, products: refs}, nil
}

// ReconstructSnapshot rebuilds a snapshot from trusted store rows.
func ReconstructSnapshot(name string, products []catalog.ProductRef) Snapshot {
	refs := slices.Clone(products)
	sortProductRefs(refs)
	return Snapshot{name: catalog.ReconstructName(name), products: refs}
}

func (s Snapshot) Name() string {
	return s.name.String()
}

func (s Snapshot) Products() []catalog.ProductRef {
	return slices.Clone(s.products)
}

// WithProductRevision returns a copy of the snapshot with the reference to
// productID rewritten to revision. The second return is false when the
// snapshot holds no reference to productID.
func (s Snapshot) WithProductRevision(productID uuid.UUID, revision int) (Snapshot, bool) {
	refs := slices.Clone(s.products)
	changed := false
	for i, ref := range refs {
		if ref.ProductID == productID {
			refs[i].Revision = revision
			changed = true
		}
	}
	return Snapshot{name: s.name, products: refs}, changed
}

func sortProductRefs(refs []catalog.ProductRef) {
	slices.SortFunc(refs, func(a, b catalog.ProductRef) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})
}
