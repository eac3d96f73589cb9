package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/service/blob"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage selects the attachment blob store
type Storage struct {
	backend         string
	maxBytes        int64
	gcsBucket       string
	gcsPrefix       string
	credentialsFile string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage",
			Usage:       "Attachment storage backend [memory|gcs]",
			Category:    "Storage",
			Value:       "memory",
			Sources:     cli.EnvVars("RISKREG_STORAGE"),
			Destination: &x.backend,
		},
		&cli.Int64Flag{
			Name:        "storage-max-bytes",
			Usage:       "Maximum attachment size kept by the memory backend",
			Category:    "Storage",
			Value:       10 << 20,
			Sources:     cli.EnvVars("RISKREG_STORAGE_MAX_BYTES"),
			Destination: &x.maxBytes,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "GCS bucket for attachments",
			Category:    "Storage",
			Sources:     cli.EnvVars("RISKREG_GCS_BUCKET"),
			Destination: &x.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix inside the GCS bucket",
			Category:    "Storage",
			Value:       "attachments/",
			Sources:     cli.EnvVars("RISKREG_GCS_PREFIX"),
			Destination: &x.gcsPrefix,
		},
		&cli.StringFlag{
			Name:        "gcs-credentials",
			Usage:       "Service account credentials file (ADC when empty)",
			Category:    "Storage",
			Sources:     cli.EnvVars("RISKREG_GCS_CREDENTIALS"),
			Destination: &x.credentialsFile,
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("gcs_bucket", x.gcsBucket),
		slog.String("gcs_prefix", x.gcsPrefix),
	)
}

// Configure builds the blob store. The returned closer releases backend resources.
func (x *Storage) Configure(ctx context.Context) (interfaces.BlobStore, func(), error) {
	switch x.backend {
	case "memory", "":
		return blob.NewMemory(x.maxBytes), func() {}, nil

	case "gcs":
		if x.gcsBucket == "" {
			return nil, nil, goerr.Wrap(ErrMissingFlag, "--gcs-bucket is required for gcs storage", goerr.V(FlagKey, "gcs-bucket"))
		}
		store, err := blob.NewGCS(ctx, x.gcsBucket, x.gcsPrefix, x.credentialsFile)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create GCS blob store", goerr.V("bucket", x.gcsBucket))
		}
		closer := func() {
			if err := store.Close(); err != nil {
				logging.Default().Error("failed to close GCS client", "error", err.Error())
			}
		}
		return store, closer, nil

	default:
		return nil, nil, goerr.Wrap(ErrInvalidConfig, "unknown storage backend", goerr.V("storage", x.backend))
	}
}
