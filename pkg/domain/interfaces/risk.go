package interfaces

import (
	"context"

	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// MutateFunc edits a private copy of a risk. Returning an error discards the copy.
type MutateFunc func(risk *model.Risk) error

type RiskRepository interface {
	// Create stores a new risk at the end of the collection
	Create(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Get retrieves a risk by ID
	Get(ctx context.Context, id types.RiskID) (*model.Risk, error)

	// List retrieves all risks in creation order
	List(ctx context.Context) ([]*model.Risk, error)

	// Mutate applies fn to a copy of the risk and commits it only when fn succeeds
	Mutate(ctx context.Context, id types.RiskID, fn MutateFunc) (*model.Risk, error)

	// Delete removes a risk and returns the removed record
	Delete(ctx context.Context, id types.RiskID) (*model.Risk, error)
}
