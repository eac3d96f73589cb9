package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

type riskRepository struct {
	mu    sync.RWMutex
	risks map[types.RiskID]*model.Risk
	order []types.RiskID
}

func newRiskRepository() *riskRepository {
	return &riskRepository{
		risks: make(map[types.RiskID]*model.Risk),
	}
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := risk.Clone()
	if created.ID == "" {
		created.ID = types.NewRiskID()
	}
	if _, exists := r.risks[created.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "risk already exists", goerr.V("id", created.ID))
	}

	r.risks[created.ID] = created
	r.order = append(r.order, created.ID)

	return created.Clone(), nil
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risk, exists := r.risks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	return risk.Clone(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risks := make([]*model.Risk, 0, len(r.order))
	for _, id := range r.order {
		risks = append(risks, r.risks[id].Clone())
	}

	return risks, nil
}

func (r *riskRepository) Mutate(ctx context.Context, id types.RiskID, fn interfaces.MutateFunc) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.risks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}

	draft := existing.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	// identity is not editable through a mutation
	draft.ID = existing.ID

	r.risks[id] = draft
	return draft.Clone(), nil
}

func (r *riskRepository) Delete(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.risks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}

	delete(r.risks, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}

	return existing, nil
}
