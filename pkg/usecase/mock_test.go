package usecase_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
)

type mockTicketService struct {
	mu             sync.Mutex
	calls          int
	createTicketFn func(ctx context.Context, req interfaces.TicketRequest) (*interfaces.Ticket, error)
}

func (m *mockTicketService) CreateTicket(ctx context.Context, req interfaces.TicketRequest) (*interfaces.Ticket, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.createTicketFn != nil {
		return m.createTicketFn(ctx, req)
	}
	return &interfaces.Ticket{ID: "acme/risks#1", URL: "https://github.com/acme/risks/issues/1"}, nil
}

func (m *mockTicketService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockSuggestionService struct {
	suggestFn func(ctx context.Context, req interfaces.SuggestionRequest) ([]string, error)
}

func (m *mockSuggestionService) Suggest(ctx context.Context, req interfaces.SuggestionRequest) ([]string, error) {
	return m.suggestFn(ctx, req)
}

type mockBlobStore struct {
	mu    sync.Mutex
	blobs map[string]string
	putFn func(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

func (m *mockBlobStore) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if m.putFn != nil {
		return m.putFn(ctx, name, contentType, r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blobs == nil {
		m.blobs = make(map[string]string)
	}
	ref := "mem://" + name
	m.blobs[ref] = string(data)
	return ref, nil
}

func (m *mockBlobStore) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return io.NopCloser(strings.NewReader(m.blobs[ref])), nil
}

type mockRenderer struct {
	renderFn func(ctx context.Context, w io.Writer, report *model.Report) error
}

func (m *mockRenderer) Render(ctx context.Context, w io.Writer, report *model.Report) error {
	if m.renderFn != nil {
		return m.renderFn(ctx, w, report)
	}
	_, err := io.WriteString(w, report.Title)
	return err
}

func (m *mockRenderer) ContentType() string { return "text/plain" }
func (m *mockRenderer) Extension() string   { return "txt" }

// steppingClock returns start and advances one minute per call
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now
		now = now.Add(time.Minute)
		return t
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
