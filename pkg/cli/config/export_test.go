package config

import (
	"io"
	"log/slog"
)

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channel string) *Slack {
	return &Slack{
		botToken: botToken,
		channel:  channel,
	}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

func NewGitHubForTest(appID, installationID int, privateKey, owner, repo string) *GitHub {
	return &GitHub{
		appID:          appID,
		installationID: installationID,
		privateKey:     privateKey,
		owner:          owner,
		repo:           repo,
	}
}

func NewStorageForTest(backend, bucket string) *Storage {
	return &Storage{
		backend:   backend,
		maxBytes:  1 << 20,
		gcsBucket: bucket,
	}
}

func NewSeedForTest(path string) *Seed {
	return &Seed{path: path}
}

func NewConfigForTest(path string) *Config {
	return &Config{path: path}
}

func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	return newLogger(w, level, format)
}
