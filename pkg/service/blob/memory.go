package blob

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
)

const defaultContentType = "application/octet-stream"

// ErrInvalidRef is returned for a reference the store did not issue
var ErrInvalidRef = goerr.New("invalid blob reference")

// Memory keeps attachment content inline: the reference is a base64 data URL
// carrying the whole content, so nothing is held by the store itself.
type Memory struct {
	maxBytes int64
}

var _ interfaces.BlobStore = &Memory{}

// NewMemory creates an inline store. maxBytes <= 0 disables the size limit.
func NewMemory(maxBytes int64) *Memory {
	return &Memory{maxBytes: maxBytes}
}

func (m *Memory) Put(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}

	src := r
	if m.maxBytes > 0 {
		src = io.LimitReader(r, m.maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read attachment", goerr.V("name", name))
	}
	if m.maxBytes > 0 && int64(len(data)) > m.maxBytes {
		return "", goerr.New("attachment too large",
			goerr.V("name", name), goerr.V("max_bytes", m.maxBytes))
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (m *Memory) Get(_ context.Context, ref string) (io.ReadCloser, error) {
	_, data, err := ParseDataURL(ref)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ParseDataURL decodes a base64 data URL into its content type and content
func ParseDataURL(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, goerr.Wrap(ErrInvalidRef, "not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, goerr.Wrap(ErrInvalidRef, "data URL has no payload")
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, goerr.Wrap(ErrInvalidRef, "data URL is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, goerr.Wrap(ErrInvalidRef, "failed to decode data URL", goerr.V("error", err.Error()))
	}
	if contentType == "" {
		contentType = defaultContentType
	}
	return contentType, data, nil
}
