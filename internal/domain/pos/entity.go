package pos

import (
	"bytes"
	"slices"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidWindow            = errs.New("validity window start must be before end")
	ErrDuplicateContainerRef    = errs.New("point of sale references the same container twice")
	ErrInvalidContainerRevision = errs.New("container reference revision must be at least 1")
)

// PointOfSale is the mutable head record for one sales location.
type PointOfSale struct {
	id              uuid.UUID
	ownerID         uuid.UUID
	currentRevision *int
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

func NewPointOfSale(ownerID uuid.UUID, now time.Time) *PointOfSale {
	return &PointOfSale{
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
) *PointOfSale {
	return &PointOfSale{
		id:              id,
		ownerID:         ownerID,
		currentRevision: currentRevision,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		deletedAt:       deletedAt,
	}
}

func (p *PointOfSale) ID() uuid.UUID        { return p.id }
func (p *PointOfSale) OwnerID() uuid.UUID   { return p.ownerID }
func (p *PointOfSale) CreatedAt() time.Time { return p.createdAt }
func (p *PointOfSale) UpdatedAt() time.Time { return p.updatedAt }

func (p *PointOfSale) CurrentRevision() (int, bool) {
	if p.currentRevision == nil {
		return 0, false
	}
	return *p.currentRevision, true
}

func (p *PointOfSale) IsDeleted() bool {
	return p.deletedAt != nil
}

// Window is the half-open validity interval [start, end).
type Window struct {
	start time.Time
	end   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	if !start.Before(end) {
		return Window{}, ErrInvalidWindow
	}
	return Window{start: start, end: end}, nil
}

func ReconstructWindow(start, end time.Time) Window {
	return Window{start: start, end: end}
}

func (w Window) Start() time.Time { return w.start }
func (w Window) End() time.Time   { return w.end }

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// Snapshot is one validated revision payload: name, authentication flag,
// validity window and the exact (container, revision) pairs on offer.
type Snapshot struct {
	name                   catalog.Name
	requiresAuthentication bool
	window                 Window
	containers             []catalog.ContainerRef
}

func NewSnapshot(
	name string,
	requiresAuthentication bool,
	window Window,
	containers []catalog.ContainerRef,
) (Snapshot, error) {
	n, err := catalog.NewName(name)
	if err != nil {
		return Snapshot{}, err
	}
	refs := slices.Clone(containers)
	seen := make(map[uuid.UUID]struct{}, len(refs))
	for _, ref := range refs {
		if ref.Revision < 1 {
			return Snapshot{}, ErrInvalidContainerRevision
		}
		if _, dup := seen[ref.ContainerID]; dup {
			return Snapshot{}, ErrDuplicateContainerRef
		}
		seen[ref.ContainerID] = struct{}{}
	}
	sortContainerRefs(refs)
	return Snapshot{
		name:                   n,
		requiresAuthentication: requiresAuthentication,
		window:                 window,
		containers:             refs,
	}, nil
}

// ReconstructSnapshot rebuilds a snapshot from trusted store rows.
func ReconstructSnapshot(
	name string,
	requiresAuthentication bool,
	window Window,
	containers []catalog.ContainerRef,
) Snapshot {
	refs := slices.Clone(containers)
	sortContainerRefs(refs)
	return Snapshot{
		name:                   catalog.ReconstructName(name),
		requiresAuthentication: requiresAuthentication,
		window:                 window,
		containers:             refs,
	}
}

func (s Snapshot) Name() string                 { return s.name.String() }
func (s Snapshot) RequiresAuthentication() bool { return s.requiresAuthentication }
func (s Snapshot) Window() Window               { return s.window }

func (s Snapshot) Containers() []catalog.ContainerRef {
	return slices.Clone(s.containers)
}

// WithContainerRevision returns a copy of the snapshot with the reference to
// containerID rewritten to revision. The second return is false when the
// snapshot holds no reference to containerID.
func (s Snapshot) WithContainerRevision(containerID uuid.UUID, revision int) (Snapshot, bool) {
	refs := slices.Clone(s.containers)
	changed := false
	for i, ref := range refs {
		if ref.ContainerID == containerID {
			refs[i].Revision = revision
			changed = true
		}
	}
	next := s
	next.containers = refs
	return next, changed
}

func sortContainerRefs(refs []catalog.ContainerRef) {
	slices.SortFunc(refs, func(a, b catalog.ContainerRef) int {
		return bytes.Compare(a.ContainerID[:], b.ContainerID[:])
	})
}
