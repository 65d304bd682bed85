package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

const waitTimeout = 5 * time.Second

// collection follows a subscription and the write acknowledgments the way the
// controller does: direct snapshots win, otherwise wait for the stream.
type collection struct {
	sub  *Subscription
	last []domain.Project
}

func follow(t *testing.T, s Store) *collection {
	t.Helper()
	sub, err := s.Subscribe(context.Background())
	require.NoError(t, err)
	t.Cleanup(sub.Close)

	c := &collection{sub: sub}
	c.last = c.next(t)
	return c
}

func (c *collection) next(t *testing.T) []domain.Project {
	t.Helper()
	select {
	case snap, ok := <-c.sub.Snapshots:
		require.True(t, ok, "subscription closed")
		return snap
	case err := <-c.sub.Errors:
		t.Fatalf("subscription error: %v", err)
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

// settle returns the collection once want holds.
func (c *collection) settle(t *testing.T, ack Ack, want func([]domain.Project) bool) []domain.Project {
	t.Helper()
	if ack.Snapshot != nil {
		c.last = ack.Snapshot
		require.True(t, want(c.last), "acknowledged snapshot does not reflect the write")
		return c.last
	}
	for !want(c.last) {
		c.last = c.next(t)
	}
	return c.last
}

func has(id string) func([]domain.Project) bool {
	return func(ps []domain.Project) bool {
		_, ok := domain.Find(ps, id)
		return ok
	}
}

func lacks(id string) func([]domain.Project) bool {
	return func(ps []domain.Project) bool {
		_, ok := domain.Find(ps, id)
		return !ok
	}
}

func sampleProject() domain.Project {
	p := domain.NewProjectDraft()
	p.Name = "Round Trip"
	p.Features = []domain.Feature{
		{ID: 3, Name: "third", Status: domain.StatusNext, Files: "c.go", Category: "Core"},
		{ID: 1, Name: "first", Status: domain.StatusDone, Files: "a.go", Category: "API"},
	}
	p.UIUXTasks = []domain.Task{{ID: 9, Name: "t", Status: domain.StatusProgress, Description: "d", Priority: domain.PriorityHigh}}
	p.Phases = []domain.Phase{{ID: 2, Name: "P1", Timeline: "Q1", Color: "bg", Tasks: []string{"x", "y"}}}
	p.TechStack = []domain.TechItem{{ID: 4, Category: "DB", Tech: "pg", Icon: "Database"}}
	return p
}

// runStoreContract exercises the behaviour every Store variant shares. s must
// start with an empty collection.
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()
	c := follow(t, s)
	require.Empty(t, c.last)

	ackA, err := s.Create(ctx, domain.NewProjectDraft())
	require.NoError(t, err)
	require.NotEmpty(t, ackA.ID)
	snap := c.settle(t, ackA, has(ackA.ID))
	require.Len(t, snap, 1)

	t.Run("last project cannot be removed", func(t *testing.T) {
		_, err := s.Remove(ctx, ackA.ID)
		assert.ErrorIs(t, err, domain.ErrLastProject)
	})

	t.Run("missing ids", func(t *testing.T) {
		missing := uuid.NewString()
		_, err := s.Replace(ctx, missing, domain.NewProjectDraft())
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = s.Remove(ctx, missing)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	ackB, err := s.Create(ctx, domain.NewProjectDraft())
	require.NoError(t, err)
	c.settle(t, ackB, has(ackB.ID))

	t.Run("replace is a full document overwrite", func(t *testing.T) {
		want := sampleProject()
		ack, err := s.Replace(ctx, ackA.ID, want)
		require.NoError(t, err)

		snap := c.settle(t, ack, func(ps []domain.Project) bool {
			p, ok := domain.Find(ps, ackA.ID)
			return ok && p.Name == want.Name
		})
		got, _ := domain.Find(snap, ackA.ID)
		want.ID = ackA.ID
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}

		// Collections dropped from the new document are gone afterwards.
		slim := domain.Project{Name: "Slim"}
		ack, err = s.Replace(ctx, ackA.ID, slim)
		require.NoError(t, err)
		snap = c.settle(t, ack, func(ps []domain.Project) bool {
			p, ok := domain.Find(ps, ackA.ID)
			return ok && p.Name == "Slim"
		})
		got, _ = domain.Find(snap, ackA.ID)
		assert.Empty(t, got.FeatureList())
		assert.Empty(t, got.Icon)
	})

	t.Run("remove with siblings", func(t *testing.T) {
		ack, err := s.Remove(ctx, ackA.ID)
		require.NoError(t, err)
		snap := c.settle(t, ack, lacks(ackA.ID))
		require.Len(t, snap, 1)
		assert.Equal(t, ackB.ID, snap[0].ID)
	})
}
