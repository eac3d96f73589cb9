package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration for the digest channel
type Slack struct {
	botToken string
	channel  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (chat:write)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("RISKREG_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID receiving the register digest",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("RISKREG_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// IsConfigured returns true if both the token and the channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channel != ""
}

// Configure creates the notifier. Returns nil when Slack is not configured.
func (x *Slack) Configure() (*slack.Notifier, error) {
	if x.botToken == "" && x.channel == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.Wrap(ErrMissingFlag, "--slack-bot-token and --slack-channel must be set together",
			goerr.V(FlagKey, "slack-channel"))
	}

	notifier, err := slack.New(x.botToken, x.channel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack notifier")
	}
	return notifier, nil
}
