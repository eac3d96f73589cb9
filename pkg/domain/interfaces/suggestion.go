package interfaces

import (
	"context"

	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// SuggestionRequest is the draft a suggestion is requested for
type SuggestionRequest struct {
	Title    string
	Category types.Category
}

// SuggestionService proposes mitigations for a draft risk
type SuggestionService interface {
	Suggest(ctx context.Context, req SuggestionRequest) ([]string, error)
}
