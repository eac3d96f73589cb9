package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/utils/errutil"
	"golang.org/x/time/rate"
)

type suggestionTask struct {
	seq    uint64
	cancel context.CancelFunc
}

// SuggestionUseCase fetches mitigation suggestions for risk drafts. A new
// fetch for a draft key cancels the previous one for the same key.
type SuggestionUseCase struct {
	service interfaces.SuggestionService
	limiter *rate.Limiter

	mu       sync.Mutex
	seq      uint64
	inflight map[string]suggestionTask
}

func NewSuggestionUseCase(service interfaces.SuggestionService, limiter *rate.Limiter) *SuggestionUseCase {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &SuggestionUseCase{
		service:  service,
		limiter:  limiter,
		inflight: make(map[string]suggestionTask),
	}
}

// Fetch returns suggestions for the draft identified by key. It fails with
// ErrSuperseded when a newer fetch for the same key started meanwhile. Service
// failures are logged and yield an empty list.
func (uc *SuggestionUseCase) Fetch(ctx context.Context, key string, req interfaces.SuggestionRequest) ([]string, error) {
	if req.Title == "" {
		return nil, goerr.Wrap(ErrValidation, "title is required for suggestions")
	}
	if uc.service == nil {
		return []string{}, nil
	}

	taskCtx, seq := uc.start(ctx, key)
	defer uc.finish(key, seq)

	if err := uc.limiter.Wait(taskCtx); err != nil {
		if uc.superseded(key, seq) {
			return nil, goerr.Wrap(ErrSuperseded, "suggestion request superseded", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "suggestion request canceled", goerr.V("key", key))
	}

	items, err := uc.service.Suggest(taskCtx, req)
	if uc.superseded(key, seq) {
		return nil, goerr.Wrap(ErrSuperseded, "suggestion request superseded", goerr.V("key", key))
	}
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to fetch suggestions")
		return []string{}, nil
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

func (uc *SuggestionUseCase) start(ctx context.Context, key string) (context.Context, uint64) {
	taskCtx, cancel := context.WithCancel(ctx)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if prev, ok := uc.inflight[key]; ok {
		prev.cancel()
	}
	uc.seq++
	uc.inflight[key] = suggestionTask{seq: uc.seq, cancel: cancel}

	return taskCtx, uc.seq
}

func (uc *SuggestionUseCase) finish(key string, seq uint64) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if cur, ok := uc.inflight[key]; ok && cur.seq == seq {
		cur.cancel()
		delete(uc.inflight, key)
	}
}

func (uc *SuggestionUseCase) superseded(key string, seq uint64) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	cur, ok := uc.inflight[key]
	return !ok || cur.seq != seq
}
