package errutil_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/utils/errutil"
)

func TestHandleReturnsSameError(t *testing.T) {
	base := errors.New("boom")
	err := goerr.Wrap(base, "wrapped", goerr.V("risk_id", "r-1"))

	got := errutil.Handle(context.Background(), err, "failed")
	gt.Error(t, got).Is(base)
	gt.NoError(t, errutil.Handle(context.Background(), nil, "ignored"))
}

func TestHandleHTTP(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		err     error
		wantMsg string
	}{
		{
			name:    "client error exposes message",
			status:  http.StatusBadRequest,
			err:     goerr.New("title is required"),
			wantMsg: "title is required",
		},
		{
			name:    "internal error hides message",
			status:  http.StatusInternalServerError,
			err:     goerr.New("database password is wrong"),
			wantMsg: "Internal Server Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			errutil.HandleHTTP(context.Background(), w, tc.err, tc.status)

			gt.Value(t, w.Code).Equal(tc.status)
			gt.Value(t, w.Header().Get("Content-Type")).Equal("application/json")

			var body map[string]string
			gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
			gt.Value(t, body["error"]).Equal(tc.wantMsg)
		})
	}
}

func TestHandleReportsValuesToSentry(t *testing.T) {
	var captured *sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			captured = event
			return nil
		},
	})
	gt.NoError(t, err).Required()

	hub := sentry.NewHub(client, sentry.NewScope())
	ctx := sentry.SetHubOnContext(context.Background(), hub)

	_ = errutil.Handle(ctx, goerr.New("ticket failed", goerr.V("risk_id", "r-2")), "failed")

	gt.Value(t, captured).NotNil().Required()
	gt.Value(t, captured.Contexts["goerr"]["risk_id"]).Equal("r-2")
}
