package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/repository/memory"
)

func newTestRisk(title string) *model.Risk {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	return &model.Risk{
		Title:         title,
		Desc:          title + " description",
		Category:      types.CategoryNetwork,
		Status:        types.RiskStatusOpen,
		Likelihood:    3,
		Impact:        4,
		InherentScore: 12,
		ResidualScore: 12,
		ChangeLog: []model.ChangeLogEntry{
			{Timestamp: now, Actor: model.DefaultActor, Action: model.ActionCreateRisk},
		},
		DateCreated: now,
		DateUpdated: now,
	}
}

func runRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns an ID when missing", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, newTestRisk("SQL Injection Risk"))
		gt.NoError(t, err).Required()

		gt.String(t, created.ID.String()).NotEqual("")
		gt.Value(t, created.Title).Equal("SQL Injection Risk")
		gt.Array(t, created.ChangeLog).Length(1)
	})

	t.Run("Create keeps a caller supplied ID and rejects duplicates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		risk := newTestRisk("XSS Risk")
		risk.ID = types.NewRiskID()

		created, err := repo.Risk().Create(ctx, risk)
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).Equal(risk.ID)

		_, err = repo.Risk().Create(ctx, risk)
		gt.Error(t, err).Is(memory.ErrAlreadyExists)
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, newTestRisk("CSRF Risk"))
		gt.NoError(t, err).Required()

		got, err := repo.Risk().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		got.Title = "changed"
		got.ChangeLog[0].Detail = "changed"

		again, err := repo.Risk().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, again.Title).Equal("CSRF Risk")
		gt.Value(t, again.ChangeLog[0].Detail).Equal("")
	})

	t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Risk().Get(context.Background(), types.NewRiskID())
		gt.Error(t, err).Is(memory.ErrNotFound)
	})

	t.Run("List keeps creation order after deletion", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var ids []types.RiskID
		for i := 0; i < 4; i++ {
			created, err := repo.Risk().Create(ctx, newTestRisk(fmt.Sprintf("risk-%d", i)))
			gt.NoError(t, err).Required()
			ids = append(ids, created.ID)
		}

		removed, err := repo.Risk().Delete(ctx, ids[1])
		gt.NoError(t, err).Required()
		gt.Value(t, removed.Title).Equal("risk-1")

		risks, err := repo.Risk().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(3).Required()
		gt.Value(t, risks[0].Title).Equal("risk-0")
		gt.Value(t, risks[1].Title).Equal("risk-2")
		gt.Value(t, risks[2].Title).Equal("risk-3")

		_, err = repo.Risk().Get(ctx, ids[1])
		gt.Error(t, err).Is(memory.ErrNotFound)
	})

	t.Run("List on empty repository", func(t *testing.T) {
		repo := newRepo(t)

		risks, err := repo.Risk().List(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(0)
	})

	t.Run("Mutate commits on success", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, newTestRisk("Weak TLS"))
		gt.NoError(t, err).Required()

		updated, err := repo.Risk().Mutate(ctx, created.ID, func(r *model.Risk) error {
			r.Owner = "alice"
			r.ID = types.NewRiskID()
			return nil
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Owner).Equal("alice")
		gt.Value(t, updated.ID).Equal(created.ID)

		got, err := repo.Risk().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Owner).Equal("alice")
	})

	t.Run("Mutate discards the copy on failure", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, newTestRisk("Shadow IT"))
		gt.NoError(t, err).Required()

		errAbort := errors.New("abort")
		_, err = repo.Risk().Mutate(ctx, created.ID, func(r *model.Risk) error {
			r.Owner = "mallory"
			r.Treatments = append(r.Treatments, model.Treatment{ID: types.NewTreatmentID()})
			return errAbort
		})
		gt.Error(t, err).Is(errAbort)

		got, err := repo.Risk().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Owner).Equal("")
		gt.Array(t, got.Treatments).Length(0)
	})

	t.Run("Mutate returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Risk().Mutate(context.Background(), types.NewRiskID(), func(r *model.Risk) error {
			return nil
		})
		gt.Error(t, err).Is(memory.ErrNotFound)
	})

	t.Run("Delete returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Risk().Delete(context.Background(), types.NewRiskID())
		gt.Error(t, err).Is(memory.ErrNotFound)
	})

	t.Run("concurrent mutations are serialized", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, newTestRisk("Race"))
		gt.NoError(t, err).Required()

		const n = 50
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Risk().Mutate(ctx, created.ID, func(r *model.Risk) error {
					r.ChangeLog = append(r.ChangeLog, model.ChangeLogEntry{Action: "tick"})
					return nil
				})
				gt.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := repo.Risk().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, got.ChangeLog).Length(n + 1)
	})
}

func TestMemoryRiskRepository(t *testing.T) {
	runRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}
