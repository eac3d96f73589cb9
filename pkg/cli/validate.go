package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/cli/config"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var registerCfg registerFlags
	var githubCfg config.GitHub

	var flags []cli.Flag
	flags = append(flags, registerCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate configuration and seed files and optionally check the GitHub repository",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load configuration and seed
			uc, _, err := registerCfg.build(ctx)
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			settings := uc.Settings()
			logger.Info("Configuration validation passed",
				"appetite", settings.Appetite,
				"high_residual", settings.HighResidual,
				"timezone", settings.Location.String(),
			)

			// Step 2: Check register invariants of the loaded records
			result, err := uc.ValidateRegister(ctx)
			if err != nil {
				return goerr.Wrap(err, "register check failed")
			}
			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("Register issue found",
						"risk_id", issue.RiskID,
						"title", issue.Title,
						"message", issue.Message,
					)
				}
				return fmt.Errorf("register check found %d issue(s)", len(result.Issues))
			}
			logger.Info("Register check passed", "risks", result.Checked)

			// Step 3: If a GitHub App is configured, check the ticket repository
			client, err := githubCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize GitHub ticket client")
			}
			if client == nil {
				logger.Info("GitHub App not configured, skipping repository check")
				return nil
			}

			repo, err := client.ValidateRepository(ctx)
			if err != nil {
				return goerr.Wrap(err, "GitHub repository check failed")
			}
			if !repo.Valid {
				return fmt.Errorf("GitHub repository %s/%s is not usable: %s", repo.Owner, repo.Repo, repo.ErrorMessage)
			}

			logger.Info("GitHub repository check passed",
				"repository", repo.FullName,
				"private", repo.IsPrivate,
			)
			return nil
		},
	}
}
