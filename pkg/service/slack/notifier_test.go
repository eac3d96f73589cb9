package slack_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/service/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("", "C123")
		gt.Value(t, err).NotNil()
	})

	t.Run("returns error when channel is empty", func(t *testing.T) {
		_, err := slack.New("test-token", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates notifier", func(t *testing.T) {
		n, err := slack.New("test-token", "C123")
		gt.NoError(t, err).Required()
		gt.Value(t, n).NotNil()
	})
}

func TestNotify(t *testing.T) {
	var gotChannel, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if !strings.HasSuffix(r.URL.Path, "chat.postMessage") {
			http.NotFound(w, r)
			return
		}
		gotChannel = r.FormValue("channel")
		gotText = r.FormValue("text")
		if gotChannel == "C404" {
			_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C123","ts":"1700000000.000100"}`))
	}))
	defer srv.Close()

	t.Run("posts text to the channel", func(t *testing.T) {
		n, err := slack.New("test-token", "C123", slack.WithAPIURL(srv.URL+"/"))
		gt.NoError(t, err).Required()

		gt.NoError(t, n.Notify(context.Background(), "*Risk digest*")).Required()
		gt.Value(t, gotChannel).Equal("C123")
		gt.Value(t, gotText).Equal("*Risk digest*")
	})

	t.Run("API error is returned", func(t *testing.T) {
		n, err := slack.New("test-token", "C404", slack.WithAPIURL(srv.URL+"/"))
		gt.NoError(t, err).Required()

		gt.Error(t, n.Notify(context.Background(), "hello"))
	})
}

func TestTruncateToMaxBytes(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		maxBytes int
		want     string
	}{
		{name: "short string unchanged", input: "abc", maxBytes: 10, want: "abc"},
		{name: "ascii cut", input: "abcdef", maxBytes: 4, want: "abcd"},
		{name: "multibyte not split", input: "あいう", maxBytes: 4, want: "あ"},
		{name: "exact boundary", input: "あいう", maxBytes: 6, want: "あい"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, slack.TruncateToMaxBytes(tc.input, tc.maxBytes)).Equal(tc.want)
		})
	}
}

func TestNotify_WithRealSlack(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	channel := os.Getenv("TEST_SLACK_CHANNEL")
	if token == "" || channel == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN or TEST_SLACK_CHANNEL is not set")
	}

	n, err := slack.New(token, channel)
	gt.NoError(t, err).Required()
	gt.NoError(t, n.Notify(context.Background(), "riskreg notifier integration test"))
}
