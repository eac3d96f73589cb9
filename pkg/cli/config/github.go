package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/service/ticket"
	"github.com/urfave/cli/v3"
)

// GitHub holds configuration for the GitHub App that files risk tickets
type GitHub struct {
	appID          int
	installationID int
	privateKey     string
	owner          string
	repo           string
}

// Flags returns CLI flags for GitHub App configuration
func (g *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Category:    "GitHub",
			Sources:     cli.EnvVars("RISKREG_GITHUB_APP_ID"),
			Destination: &g.appID,
		},
		&cli.IntFlag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App Installation ID",
			Category:    "GitHub",
			Sources:     cli.EnvVars("RISKREG_GITHUB_APP_INSTALLATION_ID"),
			Destination: &g.installationID,
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App Private Key (PEM string or file path)",
			Category:    "GitHub",
			Sources:     cli.EnvVars("RISKREG_GITHUB_APP_PRIVATE_KEY"),
			Destination: &g.privateKey,
		},
		&cli.StringFlag{
			Name:        "github-owner",
			Usage:       "Owner of the repository receiving risk tickets",
			Category:    "GitHub",
			Sources:     cli.EnvVars("RISKREG_GITHUB_OWNER"),
			Destination: &g.owner,
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Usage:       "Repository receiving risk tickets",
			Category:    "GitHub",
			Sources:     cli.EnvVars("RISKREG_GITHUB_REPO"),
			Destination: &g.repo,
		},
	}
}

// LogAttrs returns log attributes for the GitHub configuration (secrets hidden)
func (g *GitHub) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("app_id", g.appID),
		slog.Int("installation_id", g.installationID),
		slog.String("repository", g.owner+"/"+g.repo),
	}
}

// IsConfigured returns true if all required GitHub flags are set
func (g *GitHub) IsConfigured() bool {
	return g.appID != 0 && g.installationID != 0 && g.privateKey != "" && g.owner != "" && g.repo != ""
}

// Configure creates the ticket client. Returns nil if not all flags are
// configured (ticket creation will report an integration error).
func (g *GitHub) Configure() (*ticket.Client, error) {
	if !g.IsConfigured() {
		return nil, nil
	}

	client, err := ticket.New(int64(g.appID), int64(g.installationID), g.privateKey, g.owner, g.repo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub ticket client")
	}

	return client, nil
}
