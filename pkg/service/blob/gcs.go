package blob

import (
	"context"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"google.golang.org/api/option"
)

// GCS keeps attachments as objects in a Cloud Storage bucket. References are
// gs://bucket/object URLs.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.BlobStore = &GCS{}

// NewGCS connects to Cloud Storage. credentialsFile may be empty to use
// Application Default Credentials.
func NewGCS(ctx context.Context, bucket, prefix, credentialsFile string) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS storage client", goerr.V("bucket", bucket))
	}

	return &GCS{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Close releases the underlying client
func (g *GCS) Close() error {
	return g.client.Close()
}

func (g *GCS) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	object := ObjectName(g.prefix, types.NewAttachmentID(), name)
	if contentType == "" {
		contentType = defaultContentType
	}

	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.ContentDisposition = `attachment; filename="` + path.Base(name) + `"`

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to upload attachment",
			goerr.V("bucket", g.bucket), goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize attachment upload",
			goerr.V("bucket", g.bucket), goerr.V("object", object))
	}

	return "gs://" + g.bucket + "/" + object, nil
}

func (g *GCS) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	bucket, object, err := ParseGSURL(ref)
	if err != nil {
		return nil, err
	}
	if bucket != g.bucket {
		return nil, goerr.Wrap(ErrInvalidRef, "reference points at another bucket",
			goerr.V("bucket", bucket), goerr.V("expected", g.bucket))
	}

	rd, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open attachment",
			goerr.V("bucket", bucket), goerr.V("object", object))
	}
	return rd, nil
}

// ObjectName builds the object key of an attachment
func ObjectName(prefix string, id types.AttachmentID, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "attachment"
	}
	return path.Join(prefix, string(id), base)
}

// ParseGSURL splits gs://bucket/object into bucket and object
func ParseGSURL(ref string) (string, string, error) {
	rest, ok := strings.CutPrefix(ref, "gs://")
	if !ok {
		return "", "", goerr.Wrap(ErrInvalidRef, "not a gs:// URL", goerr.V("ref", ref))
	}
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", goerr.Wrap(ErrInvalidRef, "gs:// URL needs bucket and object", goerr.V("ref", ref))
	}
	return bucket, object, nil
}
