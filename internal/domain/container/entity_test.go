//go:build unit

package container_test

import (
	"testing"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/domain/container"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	testCases := []struct {
		name          string
		containerName string
		products      []catalog.ProductRef
		expectedError error
	}{
		{
			name:          "success: empty container",
			containerName: "Empty Shelf",
			products:      nil,
		},
		{
			name:          "success: two distinct products",
			containerName: "Beers",
			products: []catalog.ProductRef{
				{ProductID: productA, Revision: 1},
				{ProductID: productB, Revision: 4},
			},
		},
		{
			name:          "error: duplicate product",
			containerName: "Beers",
			products: []catalog.ProductRef{
				{ProductID: productA, Revision: 1},
				{ProductID: productA, Revision: 2},
			},
			expectedError: container.ErrDuplicateProductRef,
		},
		{
			name:          "error: zero revision",
			containerName: "Beers",
			products: []catalog.ProductRef{
				{ProductID: productA, Revision: 0},
			},
			expectedError: container.ErrInvalidProductRevision,
		},
		{
			name:          "error: empty name",
			containerName: "",
			expectedError: catalog.ErrEmptyName,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := container.NewSnapshot(tc.containerName, tc.products)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.containerName, snap.Name())
			assert.Len(t, snap.Products(), len(tc.products))
		})
	}
}

func TestNewSnapshot_SortsProductsByID(t *testing.T) {
	refs := []catalog.ProductRef{
		{ProductID: uuid.MustParse("ffffffff-0000-0000-0000-000000000000"), Revision: 1},
		{ProductID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Revision: 2},
		{ProductID: uuid.MustParse("88888888-0000-0000-0000-000000000000"), Revision: 3},
	}

	snap, err := container.NewSnapshot("Sorted", refs)
	require.NoError(t, err)

	got := snap.Products()
	require.Len(t, got, 3)
	assert.Equal(t, refs[1].ProductID, got[0].ProductID)
	assert.Equal(t, refs[2].ProductID, got[1].ProductID)
	assert.Equal(t, refs[0].ProductID, got[2].ProductID)
}

func TestSnapshot_WithProductRevision(t *testing.T) {
	target := uuid.New()
	other := uuid.New()

	snap, err := container.NewSnapshot("Beers", []catalog.ProductRef{
		{ProductID: target, Revision: 1},
		{ProductID: other, Revision: 7},
	})
	require.NoError(t, err)

	t.Run("rewrites the matching reference only", func(t *testing.T) {
		next, changed := snap.WithProductRevision(target, 5)
		require.True(t, changed)

		for _, ref := range next.Products() {
			switch ref.ProductID {
			case target:
				assert.Equal(t, 5, ref.Revision)
			case other:
				assert.Equal(t, 7, ref.Revision)
			}
		}
		// the original snapshot is untouched
		for _, ref := range snap.Products() {
			if ref.ProductID == target {
				assert.Equal(t, 1, ref.Revision)
			}
		}
	})

	t.Run("reports no change for an unknown product", func(t *testing.T) {
		_, changed := snap.WithProductRevision(uuid.New(), 9)
		assert.False(t, changed)
	})
}

func TestContainer_VisibleTo(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	now := time.Now()

	testCases := []struct {
		name     string
		isPublic bool
		viewer   uuid.UUID
		expected catalog.Visibility
	}{
		{"owner of a private container", false, owner, catalog.Visibility{Own: true, Public: false}},
		{"stranger on a private container", false, stranger, catalog.Visibility{Own: false, Public: false}},
		{"owner of a public container", true, owner, catalog.Visibility{Own: true, Public: true}},
		{"stranger on a public container", true, stranger, catalog.Visibility{Own: false, Public: true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := container.NewContainer(owner, tc.isPublic, now)
			assert.Equal(t, tc.expected, c.VisibleTo(tc.viewer))
		})
	}
}
