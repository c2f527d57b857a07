//go:build unit

package pos_test

import (
	"testing"
	"time"

	"pos-catalog/internal/domain/catalog"
	"pos-catalog/internal/domain/pos"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow(t *testing.T) {
	start := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		start         time.Time
		end           time.Time
		expectedError error
	}{
		{"success: start before end", start, start.Add(8 * time.Hour), nil},
		{"error: start equals end", start, start, pos.ErrInvalidWindow},
		{"error: start after end", start, start.Add(-time.Hour), pos.ErrInvalidWindow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pos.NewWindow(tc.start, tc.end)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	start := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	window, err := pos.NewWindow(start, end)
	require.NoError(t, err)

	assert.True(t, window.Contains(start), "half-open window includes its start")
	assert.True(t, window.Contains(end.Add(-time.Nanosecond)))
	assert.False(t, window.Contains(end), "half-open window excludes its end")
	assert.False(t, window.Contains(start.Add(-time.Nanosecond)))
}

func TestNewSnapshot(t *testing.T) {
	window, err := pos.NewWindow(
		time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	containerA := uuid.New()

	testCases := []struct {
		name          string
		posName       string
		containers    []catalog.ContainerRef
		expectedError error
	}{
		{
			name:       "success: one container",
			posName:    "Main Bar",
			containers: []catalog.ContainerRef{{ContainerID: containerA, Revision: 2}},
		},
		{
			name:    "error: duplicate container",
			posName: "Main Bar",
			containers: []catalog.ContainerRef{
				{ContainerID: containerA, Revision: 1},
				{ContainerID: containerA, Revision: 2},
			},
			expectedError: pos.ErrDuplicateContainerRef,
		},
		{
			name:          "error: zero revision",
			posName:       "Main Bar",
			containers:    []catalog.ContainerRef{{ContainerID: containerA, Revision: 0}},
			expectedError: pos.ErrInvalidContainerRevision,
		},
		{
			name:          "error: empty name",
			posName:       "",
			expectedError: catalog.ErrEmptyName,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := pos.NewSnapshot(tc.posName, true, window, tc.containers)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.posName, snap.Name())
			assert.True(t, snap.RequiresAuthentication())
		})
	}
}

func TestSnapshot_WithContainerRevision(t *testing.T) {
	window, err := pos.NewWindow(
		time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	target := uuid.New()
	snap, err := pos.NewSnapshot("Main Bar", false, window, []catalog.ContainerRef{
		{ContainerID: target, Revision: 1},
	})
	require.NoError(t, err)

	next, changed := snap.WithContainerRevision(target, 3)
	require.True(t, changed)
	assert.Equal(t, 3, next.Containers()[0].Revision)
	assert.Equal(t, 1, snap.Containers()[0].Revision)

	_, changed = snap.WithContainerRevision(uuid.New(), 3)
	assert.False(t, changed)
}
