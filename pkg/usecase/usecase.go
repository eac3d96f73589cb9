package usecase

import (
	"time"

	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"golang.org/x/time/rate"
)

type UseCases struct {
	repo           interfaces.Repository
	settings       Settings
	ticketService  interfaces.TicketService
	suggestService interfaces.SuggestionService
	blobStore      interfaces.BlobStore
	renderers      map[types.ExportFormat]interfaces.Renderer
	suggestLimiter *rate.Limiter
	clock          func() time.Time
	Risk           *RiskUseCase
	Export         *ExportUseCase
	Dashboard      *DashboardUseCase
	Suggestion     *SuggestionUseCase
}

type Option func(*UseCases)

func WithSettings(settings Settings) Option {
	return func(uc *UseCases) {
		uc.settings = settings
	}
}

func WithTicketService(svc interfaces.TicketService) Option {
	return func(uc *UseCases) {
		uc.ticketService = svc
	}
}

func WithSuggestionService(svc interfaces.SuggestionService) Option {
	return func(uc *UseCases) {
		uc.suggestService = svc
	}
}

func WithBlobStore(store interfaces.BlobStore) Option {
	return func(uc *UseCases) {
		uc.blobStore = store
	}
}

// WithRenderer registers the renderer of an export format
func WithRenderer(format types.ExportFormat, r interfaces.Renderer) Option {
	return func(uc *UseCases) {
		uc.renderers[format] = r
	}
}

// WithSuggestionRateLimit limits suggestion requests across all callers
func WithSuggestionRateLimit(limit rate.Limit, burst int) Option {
	return func(uc *UseCases) {
		uc.suggestLimiter = rate.NewLimiter(limit, burst)
	}
}

// WithClock replaces the time source
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:           repo,
		settings:       DefaultSettings(),
		renderers:      make(map[types.ExportFormat]interfaces.Renderer),
		suggestLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
		clock:          func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(uc)
	}
	if uc.settings.Location == nil {
		uc.settings.Location = time.UTC
	}

	uc.Risk = NewRiskUseCase(repo, uc.ticketService, uc.blobStore, uc.clock)
	uc.Export = NewExportUseCase(repo, uc.settings, uc.renderers, uc.clock)
	uc.Dashboard = NewDashboardUseCase(repo, uc.settings)
	uc.Suggestion = NewSuggestionUseCase(uc.suggestService, uc.suggestLimiter)

	return uc
}

// Settings returns the register settings in effect
func (uc *UseCases) Settings() Settings {
	return uc.settings
}
