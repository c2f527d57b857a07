// Package memory holds an in-process catalog store with the same semantics
// as the postgres implementation. It backs unit tests and local tooling
// where a database is unavailable.
package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"time"

	"pos-catalog/internal/domain/container"
	"pos-catalog/internal/domain/pos"
	"pos-catalog/internal/domain/product"
	"pos-catalog/internal/pkg/errs"
	"pos-catalog/internal/usecase/queries"
	"pos-catalog/internal/usecase/shared"

	"github.com/google/uuid"
)

type productState struct {
	head      shared.ProductHead
	revisions []shared.ProductRevisionRecord
	edit      *product.Snapshot
	editAt    time.Time
}

type containerState struct {
	head      shared.ContainerHead
	revisions []shared.ContainerRevisionRecord
	edit      *container.Snapshot
	editAt    time.Time
}

type posState struct {
	head      shared.PointOfSaleHead
	revisions []shared.PointOfSaleRevisionRecord
	edit      *pos.Snapshot
	editAt    time.Time
}

type state struct {
	products     map[uuid.UUID]*productState
	containers   map[uuid.UUID]*containerState
	pointsOfSale map[uuid.UUID]*posState
}

func newState() *state {
	return &state{
		products:     make(map[uuid.UUID]*productState),
		containers:   make(map[uuid.UUID]*containerState),
		pointsOfSale: make(map[uuid.UUID]*posState),
	}
}

func (s *state) clone() *state {
	next := newState()
	for id, p := range s.products {
		cp := *p
		cp.revisions = cloneProductRevisions(p.revisions)
		next.products[id] = &cp
	}
	for id, c := range s.containers {
		cc := *c
		cc.revisions = cloneContainerRevisions(c.revisions)
		next.containers[id] = &cc
	}
	for id, p := range s.pointsOfSale {
		cp := *p
		cp.revisions = clonePosRevisions(p.revisions)
		next.pointsOfSale[id] = &cp
	}
	return next
}

func cloneProductRevisions(revs []shared.ProductRevisionRecord) []shared.ProductRevisionRecord {
	return slices.Clone(revs)
}

func cloneContainerRevisions(revs []shared.ContainerRevisionRecord) []shared.ContainerRevisionRecord {
	out := make([]shared.ContainerRevisionRecord, len(revs))
	for i, r := range revs {
		out[i] = r
		out[i].Products = slices.Clone(r.Products)
	}
	return out
}

func clonePosRevisions(revs []shared.PointOfSaleRevisionRecord) []shared.PointOfSaleRevisionRecord {
	out := make([]shared.PointOfSaleRevisionRecord, len(revs))
	for i, r := range revs {
		out[i] = r
		out[i].Containers = slices.Clone(r.Containers)
	}
	return out
}

// Store implements shared.UnitOfWork and the read-store ports. A mutation
// runs against a deep copy of the state that is swapped in only on success,
// so a failed transaction leaves nothing behind.
type Store struct {
	mu    sync.RWMutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(ctx, &memTx{st: next}); err != nil {
		return err
	}
	s.state = next
	return nil
}

type memTx struct {
	st *state
}

func (t *memTx) Products() shared.ProductRepository         { return &productRepo{st: t.st} }
func (t *memTx) Containers() shared.ContainerRepository     { return &containerRepo{st: t.st} }
func (t *memTx) PointsOfSale() shared.PointOfSaleRepository { return &posRepo{st: t.st} }

func sortedIDs[T any](m map[uuid.UUID]*T) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}

type productRepo struct {
	st *state
}

func (r *productRepo) CreateHead(_ context.Context, p *product.Product) error {
	if _, exists := r.st.products[p.ID()]; exists {
		return errs.New("product head already exists")
	}
	r.st.products[p.ID()] = &productState{
		head: shared.ProductHead{
			ID:        p.ID(),
			OwnerID:   p.OwnerID(),
			CreatedAt: p.CreatedAt(),
			UpdatedAt: p.UpdatedAt(),
		},
	}
	return nil
}

func (r *productRepo) GetHead(_ context.Context, id uuid.UUID) (*shared.ProductHead, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	head := p.head
	return &head, nil
}

// LockHead is GetHead here: the store mutex already serializes transactions.
func (r *productRepo) LockHead(ctx context.Context, id uuid.UUID) (*shared.ProductHead, error) {
	return r.GetHead(ctx, id)
}

func (r *productRepo) SetCurrentRevision(_ context.Context, id uuid.UUID, revision int, now time.Time) error {
	p, ok := r.st.products[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	p.head.CurrentRevision = &revision
	p.head.UpdatedAt = now
	return nil
}

func (r *productRepo) AppendRevision(_ context.Context, id uuid.UUID, snap product.Snapshot, now time.Time) (int, error) {
	p, ok := r.st.products[id]
	if !ok {
		return 0, errs.ErrHeadNotFound
	}
	revision := len(p.revisions) + 1
	p.revisions = append(p.revisions, shared.ProductRevisionRecord{
		ProductID:         id,
		Revision:          revision,
		Name:              snap.Name(),
		PriceCents:        snap.PriceCents(),
		VATGroupID:        snap.VATGroupID(),
		CategoryID:        snap.CategoryID(),
		AlcoholPercentage: snap.AlcoholPercentage(),
		ImageRef:          snap.ImageRef(),
		CreatedAt:         now,
	})
	return revision, nil
}

func (r *productRepo) GetRevision(_ context.Context, id uuid.UUID, revision int) (*shared.ProductRevisionRecord, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	if revision < 1 || revision > len(p.revisions) {
		return nil, errs.ErrRevisionNotFound
	}
	rec := p.revisions[revision-1]
	return &rec, nil
}

func (r *productRepo) UpsertEdit(_ context.Context, id uuid.UUID, snap product.Snapshot, now time.Time) error {
	p, ok := r.st.products[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	p.edit = &snap
	p.editAt = now
	return nil
}

func (r *productRepo) GetEdit(_ context.Context, id uuid.UUID) (product.Snapshot, bool, error) {
	p, ok := r.st.products[id]
	if !ok {
		return product.Snapshot{}, false, errs.ErrHeadNotFound
	}
	if p.edit == nil {
		return product.Snapshot{}, false, nil
	}
	return *p.edit, true, nil
}

func (r *productRepo) DeleteEdit(_ context.Context, id uuid.UUID) error {
	p, ok := r.st.products[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	p.edit = nil
	return nil
}

func (r *productRepo) SoftDelete(_ context.Context, id uuid.UUID, now time.Time) error {
	p, ok := r.st.products[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	if p.head.DeletedAt == nil {
		p.head.DeletedAt = &now
		p.head.UpdatedAt = now
	}
	return nil
}

type containerRepo struct {
	st *state
}

func (r *containerRepo) CreateHead(_ context.Context, c *container.Container) error {
	if _, exists := r.st.containers[c.ID()]; exists {
		return errs.New("container head already exists")
	}
	r.st.containers[c.ID()] = &containerState{
		head: shared.ContainerHead{
			ID:        c.ID(),
			OwnerID:   c.OwnerID(),
			IsPublic:  c.IsPublic(),
			CreatedAt: c.CreatedAt(),
			UpdatedAt: c.UpdatedAt(),
		},
	}
	return nil
}

func (r *containerRepo) GetHead(_ context.Context, id uuid.UUID) (*shared.ContainerHead, error) {
	c, ok := r.st.containers[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	head := c.head
	return &head, nil
}

func (r *containerRepo) LockHead(ctx context.Context, id uuid.UUID) (*shared.ContainerHead, error) {
	return r.GetHead(ctx, id)
}

func (r *containerRepo) SetCurrentRevision(_ context.Context, id uuid.UUID, revision int, now time.Time) error {
	c, ok := r.st.containers[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	c.head.CurrentRevision = &revision
	c.head.UpdatedAt = now
	return nil
}

// AppendRevision enforces referential integrity the way the database
// foreign keys do: every referenced product revision must exist.
func (r *containerRepo) AppendRevision(_ context.Context, id uuid.UUID, snap container.Snapshot, now time.Time) (int, error) {
	c, ok := r.st.containers[id]
	if !ok {
		return 0, errs.ErrHeadNotFound
	}
	for _, ref := range snap.Products() {
		p, ok := r.st.products[ref.ProductID]
		if !ok || ref.Revision < 1 || ref.Revision > len(p.revisions) {
			return 0, errs.ErrInvalidReference
		}
	}
	revision := len(c.revisions) + 1
	c.revisions = append(c.revisions, shared.ContainerRevisionRecord{
		ContainerID: id,
		Revision:    revision,
		Name:        snap.Name(),
		Products:    snap.Products(),
		CreatedAt:   now,
	})
	return revision, nil
}

func (r *containerRepo) GetRevision(_ context.Context, id uuid.UUID, revision int) (*shared.ContainerRevisionRecord, error) {
	c, ok := r.st.containers[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	if revision < 1 || revision > len(c.revisions) {
		return nil, errs.ErrRevisionNotFound
	}
	rec := c.revisions[revision-1]
	rec.Products = slices.Clone(rec.Products)
	return &rec, nil
}

func (r *containerRepo) UpsertEdit(_ context.Context, id uuid.UUID, snap container.Snapshot, now time.Time) error {
	c, ok := r.st.containers[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	c.edit = &snap
	c.editAt = now
	return nil
}

func (r *containerRepo) GetEdit(_ context.Context, id uuid.UUID) (container.Snapshot, bool, error) {
	c, ok := r.st.containers[id]
	if !ok {
		return container.Snapshot{}, false, errs.ErrHeadNotFound
	}
	if c.edit == nil {
		return container.Snapshot{}, false, nil
	}
	return *c.edit, true, nil
}

func (r *containerRepo) DeleteEdit(_ context.Context, id uuid.UUID) error {
	c, ok := r.st.containers[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	c.edit = nil
	return nil
}

func (r *containerRepo) SoftDelete(_ context.Context, id uuid.UUID, now time.Time) error {
	c, ok := r.st.containers[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	if c.head.DeletedAt == nil {
		c.head.DeletedAt = &now
		c.head.UpdatedAt = now
	}
	return nil
}

func (r *containerRepo) CurrentRevisionsReferencingProduct(_ context.Context, productID uuid.UUID, revision int) ([]shared.ContainerRevisionRecord, error) {
	var recs []shared.ContainerRevisionRecord
	for _, id := range sortedIDs(r.st.containers) {
		c := r.st.containers[id]
		if c.head.DeletedAt != nil || c.head.CurrentRevision == nil {
			continue
		}
		rec := c.revisions[*c.head.CurrentRevision-1]
		for _, ref := range rec.Products {
			if ref.ProductID == productID && ref.Revision == revision {
				rec.Products = slices.Clone(rec.Products)
				recs = append(recs, rec)
				break
			}
		}
	}
	return recs, nil
}

type posRepo struct {
	st *state
}

func (r *posRepo) CreateHead(_ context.Context, p *pos.PointOfSale) error {
	if _, exists := r.st.pointsOfSale[p.ID()]; exists {
		return errs.New("point of sale head already exists")
	}
	r.st.pointsOfSale[p.ID()] = &posState{
		head: shared.PointOfSaleHead{
			ID:        p.ID(),
			OwnerID:   p.OwnerID(),
			CreatedAt: p.CreatedAt(),
			UpdatedAt: p.UpdatedAt(),
		},
	}
	return nil
}

func (r *posRepo) GetHead(_ context.Context, id uuid.UUID) (*shared.PointOfSaleHead, error) {
	p, ok := r.st.pointsOfSale[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	head := p.head
	return &head, nil
}

func (r *posRepo) LockHead(ctx context.Context, id uuid.UUID) (*shared.PointOfSaleHead, error) {
	return r.GetHead(ctx, id)
}

func (r *posRepo) SetCurrentRevision(_ context.Context, id uuid.UUID, revision int, now time.Time) error {
	p, ok := r.st.pointsOfSale[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	p.head.CurrentRevision = &revision
	p.head.UpdatedAt = now
	return nil
}

func (r *posRepo) AppendRevision(_ context.Context, id uuid.UUID, snap pos.Snapshot, now time.Time) (int, error) {
	p, ok := r.st.pointsOfSale[id]
	if !ok {
		return 0, errs.ErrHeadNotFound
	}
	for _, ref := range snap.Containers() {
		c, ok := r.st.containers[ref.ContainerID]
		if !ok || ref.Revision < 1 || ref.Revision > len(c.revisions) {
			return 0, errs.ErrInvalidReference
		}
	}
	window := snap.Window()
	revision := len(p.revisions) + 1
	p.revisions = append(p.revisions, shared.PointOfSaleRevisionRecord{
		PointOfSaleID:          id,
		Revision:               revision,
		Name:                   snap.Name(),
		RequiresAuthentication: snap.RequiresAuthentication(),
		StartsAt:               window.Start(),
		EndsAt:                 window.End(),
		Containers:             snap.Containers(),
		CreatedAt:              now,
	})
	return revision, nil
}

func (r *posRepo) GetRevision(_ context.Context, id uuid.UUID, revision int) (*shared.PointOfSaleRevisionRecord, error) {
	p, ok := r.st.pointsOfSale[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	if revision < 1 || revision > len(p.revisions) {
		return nil, errs.ErrRevisionNotFound
	}
	rec := p.revisions[revision-1]
	rec.Containers = slices.Clone(rec.Containers)
	return &rec, nil
}

func (r *posRepo) UpsertEdit(_ context.Context, id uuid.UUID, snap pos.Snapshot, now time.Time) error {
	p, ok := r.st.pointsOfSale[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	p.edit = &snap
	p.editAt = now
	return nil
}

func (r *posRepo) GetEdit(_ context.Context, id uuid.UUID) (pos.Snapshot, bool, error) {
	p, ok := r.st.pointsOfSale[id]
	if !ok {
		return pos.Snapshot{}, false, errs.ErrHeadNotFound
	}
	if p.edit == nil {
		return pos.Snapshot{}, false, nil
	}
	return *p.edit, true, nil
}

func (r *posRepo) DeleteEdit(_ context.Context, id uuid.UUID) error {
	p, ok := r.st.pointsOfSale[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	p.edit = nil
	return nil
}

func (r *posRepo) SoftDelete(_ context.Context, id uuid.UUID, now time.Time) error {
	p, ok := r.st.pointsOfSale[id]
	if !ok {
		return errs.ErrHeadNotFound
	}
	if p.head.DeletedAt == nil {
		p.head.DeletedAt = &now
		p.head.UpdatedAt = now
	}
	return nil
}

func (r *posRepo) CurrentRevisionsReferencingContainer(_ context.Context, containerID uuid.UUID, revision int) ([]shared.PointOfSaleRevisionRecord, error) {
	var recs []shared.PointOfSaleRevisionRecord
	for _, id := range sortedIDs(r.st.pointsOfSale) {
		p := r.st.pointsOfSale[id]
		if p.head.DeletedAt != nil || p.head.CurrentRevision == nil {
			continue
		}
		rec := p.revisions[*p.head.CurrentRevision-1]
		for _, ref := range rec.Containers {
			if ref.ContainerID == containerID && ref.Revision == revision {
				rec.Containers = slices.Clone(rec.Containers)
				recs = append(recs, rec)
				break
			}
		}
	}
	return recs, nil
}

// Read-store ports over committed state.

func (s *Store) ProductHead(_ context.Context, id uuid.UUID) (*queries.ProductHeadView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.products[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	return &queries.ProductHeadView{
		ID:              p.head.ID,
		OwnerID:         p.head.OwnerID,
		CurrentRevision: p.head.CurrentRevision,
		CreatedAt:       p.head.CreatedAt,
		UpdatedAt:       p.head.UpdatedAt,
		DeletedAt:       p.head.DeletedAt,
	}, nil
}

func (s *Store) ProductRevision(_ context.Context, id uuid.UUID, revision int) (*queries.ProductRevisionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.products[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	if revision < 1 || revision > len(p.revisions) {
		return nil, errs.ErrRevisionNotFound
	}
	view := productRevisionView(p.revisions[revision-1])
	return &view, nil
}

func (s *Store) ProductRevisions(_ context.Context, id uuid.UUID) ([]queries.ProductRevisionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.products[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	views := make([]queries.ProductRevisionView, len(p.revisions))
	for i, rec := range p.revisions {
		views[i] = productRevisionView(rec)
	}
	return views, nil
}

func (s *Store) PendingProductEdit(_ context.Context, id uuid.UUID) (*queries.ProductEditView, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.products[id]
	if !ok {
		return nil, false, errs.ErrHeadNotFound
	}
	if p.edit == nil {
		return nil, false, nil
	}
	return &queries.ProductEditView{
		ProductID:         id,
		Name:              p.edit.Name(),
		PriceCents:        p.edit.PriceCents(),
		VATGroupID:        p.edit.VATGroupID(),
		CategoryID:        p.edit.CategoryID(),
		AlcoholPercentage: p.edit.AlcoholPercentage(),
		ImageRef:          p.edit.ImageRef(),
		UpdatedAt:         p.editAt,
	}, true, nil
}

func (s *Store) ContainerHead(_ context.Context, id uuid.UUID) (*queries.ContainerHeadView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.state.containers[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	return &queries.ContainerHeadView{
		ID:              c.head.ID,
		OwnerID:         c.head.OwnerID,
		IsPublic:        c.head.IsPublic,
		CurrentRevision: c.head.CurrentRevision,
		CreatedAt:       c.head.CreatedAt,
		UpdatedAt:       c.head.UpdatedAt,
		DeletedAt:       c.head.DeletedAt,
	}, nil
}

func (s *Store) ContainerRevision(_ context.Context, id uuid.UUID, revision int) (*queries.ContainerRevisionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.state.containers[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	if revision < 1 || revision > len(c.revisions) {
		return nil, errs.ErrRevisionNotFound
	}
	view := containerRevisionView(c.revisions[revision-1])
	return &view, nil
}

func (s *Store) ContainerRevisions(_ context.Context, id uuid.UUID) ([]queries.ContainerRevisionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.state.containers[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	views := make([]queries.ContainerRevisionView, len(c.revisions))
	for i, rec := range c.revisions {
		views[i] = containerRevisionView(rec)
	}
	return views, nil
}

func (s *Store) PendingContainerEdit(_ context.Context, id uuid.UUID) (*queries.ContainerEditView, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.state.containers[id]
	if !ok {
		return nil, false, errs.ErrHeadNotFound
	}
	if c.edit == nil {
		return nil, false, nil
	}
	return &queries.ContainerEditView{
		ContainerID: id,
		Name:        c.edit.Name(),
		Products:    c.edit.Products(),
		UpdatedAt:   c.editAt,
	}, true, nil
}

func (s *Store) PointOfSaleHead(_ context.Context, id uuid.UUID) (*queries.PointOfSaleHeadView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.pointsOfSale[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	return &queries.PointOfSaleHeadView{
		ID:              p.head.ID,
		OwnerID:         p.head.OwnerID,
		CurrentRevision: p.head.CurrentRevision,
		CreatedAt:       p.head.CreatedAt,
		UpdatedAt:       p.head.UpdatedAt,
		DeletedAt:       p.head.DeletedAt,
	}, nil
}

func (s *Store) PointOfSaleRevision(_ context.Context, id uuid.UUID, revision int) (*queries.PointOfSaleRevisionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.pointsOfSale[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	if revision < 1 || revision > len(p.revisions) {
		return nil, errs.ErrRevisionNotFound
	}
	view := posRevisionView(p.revisions[revision-1])
	return &view, nil
}

func (s *Store) PointOfSaleRevisions(_ context.Context, id uuid.UUID) ([]queries.PointOfSaleRevisionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.pointsOfSale[id]
	if !ok {
		return nil, errs.ErrHeadNotFound
	}
	views := make([]queries.PointOfSaleRevisionView, len(p.revisions))
	for i, rec := range p.revisions {
		views[i] = posRevisionView(rec)
	}
	return views, nil
}

func (s *Store) PendingPointOfSaleEdit(_ context.Context, id uuid.UUID) (*queries.PointOfSaleEditView, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.pointsOfSale[id]
	if !ok {
		return nil, false, errs.ErrHeadNotFound
	}
	if p.edit == nil {
		return nil, false, nil
	}
	window := p.edit.Window()
	return &queries.PointOfSaleEditView{
		PointOfSaleID:          id,
		Name:                   p.edit.Name(),
		RequiresAuthentication: p.edit.RequiresAuthentication(),
		StartsAt:               window.Start(),
		EndsAt:                 window.End(),
		Containers:             p.edit.Containers(),
		UpdatedAt:              p.editAt,
	}, true, nil
}

func productRevisionView(rec shared.ProductRevisionRecord) queries.ProductRevisionView {
	return queries.ProductRevisionView{
		ProductID:         rec.ProductID,
		Revision:          rec.Revision,
		Name:              rec.Name,
		PriceCents:        rec.PriceCents,
		VATGroupID:        rec.VATGroupID,
		CategoryID:        rec.CategoryID,
		AlcoholPercentage: rec.AlcoholPercentage,
		ImageRef:          rec.ImageRef,
		CreatedAt:         rec.CreatedAt,
	}
}

func containerRevisionView(rec shared.ContainerRevisionRecord) queries.ContainerRevisionView {
	return queries.ContainerRevisionView{
		ContainerID: rec.ContainerID,
		Revision:    rec.Revision,
		Name:        rec.Name,
		Products:    slices.Clone(rec.Products),
		CreatedAt:   rec.CreatedAt,
	}
}

func posRevisionView(rec shared.PointOfSaleRevisionRecord) queries.PointOfSaleRevisionView {
	return queries.PointOfSaleRevisionView{
		PointOfSaleID:          rec.PointOfSaleID,
		Revision:               rec.Revision,
		Name:                   rec.Name,
		RequiresAuthentication: rec.RequiresAuthentication,
		StartsAt:               rec.StartsAt,
		EndsAt:                 rec.EndsAt,
		Containers:             slices.Clone(rec.Containers),
		CreatedAt:              rec.CreatedAt,
	}
}
