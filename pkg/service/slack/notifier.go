package slack

import (
	"context"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/slack-go/slack"
)

// MaxMessageBytes is the longest text posted in one message
const MaxMessageBytes = 3000

// Notifier posts register messages to a single Slack channel
type Notifier struct {
	api     *slack.Client
	channel string
}

var _ interfaces.Notifier = &Notifier{}

// Option is a functional option for Notifier configuration
type Option func(*options)

type options struct {
	apiURL string
}

// WithAPIURL points the client at another Slack API endpoint. The URL must end with "/".
func WithAPIURL(url string) Option {
	return func(o *options) {
		o.apiURL = url
	}
}

// New creates a Notifier with the provided bot token and channel ID
func New(token, channel string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var slackOpts []slack.Option
	if o.apiURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(o.apiURL))
	}

	return &Notifier{
		api:     slack.New(token, slackOpts...),
		channel: channel,
	}, nil
}

// Notify posts text as a plain mrkdwn message
func (n *Notifier) Notify(ctx context.Context, text string) error {
	text = truncateToMaxBytes(text, MaxMessageBytes)

	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post message", goerr.V("channel", n.channel))
	}

	return nil
}

// truncateToMaxBytes cuts s at a rune boundary so that it fits in maxBytes
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
