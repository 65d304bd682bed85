package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

func TestLocalStore_Contract(t *testing.T) {
	runStoreContract(t, NewLocalStore())
}

func TestLocalStore_EmitsOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	seed, err := domain.LoadSeed("")
	require.NoError(t, err)
	s := NewLocalStore(seed)

	sub, err := s.Subscribe(context.Background())
	require.NoError(t, err)

	snap := <-sub.Snapshots
	require.Len(t, snap, 1)
	assert.Equal(t, domain.DemoProjectID, snap[0].ID)

	ack, err := s.Create(context.Background(), domain.NewProjectDraft())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ack.ID, "local-"))
	assert.Len(t, ack.Snapshot, 2)

	select {
	case extra := <-sub.Snapshots:
		t.Fatalf("unexpected second emission: %v", extra)
	default:
	}

	sub.Close()
	_, open := <-sub.Snapshots
	assert.False(t, open)
}

func TestLocalStore_SnapshotsAreCopies(t *testing.T) {
	s := NewLocalStore(domain.Project{ID: "a", Features: []domain.Feature{{ID: 1, Name: "x"}}})

	got := s.Projects()
	got[0].Features[0].Name = "mutated"

	assert.Equal(t, "x", s.Projects()[0].Features[0].Name)
}

func TestLocalStore_ReplaceKeepsID(t *testing.T) {
	s := NewLocalStore(domain.Project{ID: "a"}, domain.Project{ID: "b"})

	ack, err := s.Replace(context.Background(), "a", domain.Project{ID: "other", Name: "renamed"})
	require.NoError(t, err)

	p, ok := domain.Find(ack.Snapshot, "a")
	require.True(t, ok)
	assert.Equal(t, "renamed", p.Name)
	_, ok = domain.Find(ack.Snapshot, "other")
	assert.False(t, ok)
}
