package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bguard/bguard-suite/pkg/config"
	"github.com/bguard/bguard-suite/pkg/model"
)

const (
	ContentTypePDF       = "application/pdf"
	ContentTypeXLSX      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeSignature = "application/pgp-signature"
)

// Generator renders reports and stores the artifacts.
type Generator struct {
	pdf     PDFRenderer
	storage Storage
	signer  *Signer
	now     func() time.Time
}

// NewGenerator returns a Generator. signer may be nil.
func NewGenerator(pdf PDFRenderer, storage Storage, signer *Signer) *Generator {
	return &Generator{pdf: pdf, storage: storage, signer: signer, now: time.Now}
}

// NewGeneratorFromConfig wires the storage backend, the PDF renderers and
// the optional signing key from the server configuration.
func NewGeneratorFromConfig(ctx context.Context, cfg config.BGuardConfig) (*Generator, error) {
	var storage Storage
	var err error
	switch cfg.ReportStorage {
	case "s3":
		storage, err = NewS3Storage(ctx, S3Config{Bucket: cfg.S3Bucket, Region: cfg.S3Region, Endpoint: cfg.S3Endpoint})
	default:
		storage, err = NewLocalStorage(cfg.ReportDir)
	}
	if err != nil {
		return nil, err
	}

	var signer *Signer
	if cfg.ReportSigningKey != "" {
		if signer, err = LoadSigner(cfg.ReportSigningKey); err != nil {
			return nil, err
		}
	}

	renderer := Fallback{Primary: NewChromeRenderer(cfg.ChromePath), Secondary: NewNativeRenderer()}
	return NewGenerator(renderer, storage, signer), nil
}

// Signing reports whether artifacts get a detached signature.
func (g *Generator) Signing() bool { return g.signer != nil }

// Generate renders data in the format of r, stores the artifact and fills
// in the artifact fields of r. On failure r is marked FAILED and the error
// is returned; r can still be saved.
func (g *Generator) Generate(ctx context.Context, r *model.Report, data *Data) error {
	ctx, span := tracer.Start(ctx, "report.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("report.kind", r.Kind.String()),
		attribute.String("report.format", r.Format.String()),
	)

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = g.now()
	}
	if data.Title == "" {
		data.Title = r.Title
	}
	data.Kind = r.Kind
	SortFindings(data.Findings)
	data.Summary = Summarize(data.Findings)

	err := g.generate(ctx, r, data)
	if err != nil {
		r.Status = model.ReportFailed
		r.Error = "report rendering failed"
		return err
	}
	r.Status = model.ReportReady
	r.Error = ""
	return nil
}

func (g *Generator) generate(ctx context.Context, r *model.Report, data *Data) error {
	var (
		artifact []byte
		ext      string
		err      error
	)
	switch r.Format {
	case model.ReportPDF:
		artifact, err = g.pdf.RenderPDF(ctx, data)
		ext, r.ContentType = "pdf", ContentTypePDF
	case model.ReportXLSX:
		artifact, err = RenderXLSX(data)
		ext, r.ContentType = "xlsx", ContentTypeXLSX
	default:
		return fmt.Errorf("unsupported report format %q", r.Format)
	}
	if err != nil {
		return err
	}

	sum := sha256.Sum256(artifact)
	r.SHA256 = hex.EncodeToString(sum[:])
	r.Size = int64(len(artifact))
	r.StorageKey = fmt.Sprintf("%s/%s.%s", r.OrganizationID, r.ID, ext)

	if err := g.storage.Put(ctx, r.StorageKey, artifact, r.ContentType); err != nil {
		return err
	}

	if g.signer != nil {
		sig, err := g.signer.Sign(artifact)
		if err != nil {
			return err
		}
		r.Signature = sig
	}
	return nil
}

// Open streams the artifact of r.
func (g *Generator) Open(ctx context.Context, r *model.Report) (io.ReadCloser, error) {
	if r.StorageKey == "" {
		return nil, ErrArtifactNotFound
	}
	return g.storage.Open(ctx, r.StorageKey)
}

// DownloadURL returns a presigned URL for the artifact, or "" when the
// artifact has to be streamed through Open.
func (g *Generator) DownloadURL(ctx context.Context, r *model.Report) (string, error) {
	if r.StorageKey == "" {
		return "", ErrArtifactNotFound
	}
	return g.storage.URL(ctx, r.StorageKey)
}

// Remove deletes the artifact of r, if any.
func (g *Generator) Remove(ctx context.Context, r *model.Report) error {
	if r.StorageKey == "" {
		return nil
	}
	return g.storage.Delete(ctx, r.StorageKey)
}

// FileName is the download name of the artifact of r.
func FileName(r *model.Report) string {
	ext := "pdf"
	if r.Format == model.ReportXLSX {
		ext = "xlsx"
	}
	return fmt.Sprintf("%s-%s.%s", r.Kind, r.CreatedAt.Format("20060102"), ext)
}
