package report

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/google/uuid"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

func sampleData() *Data {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	findings := []model.Finding{
		{Base: model.Base{CreatedAt: created}, Title: "Verbose errors", StrideCategory: model.StrideInformationDisclosure, Severity: model.SeverityLow, Status: model.FindingMitigated, Source: model.FindingSourceManual},
		{Base: model.Base{CreatedAt: created}, Title: "Token replay", Description: "Tokens <script>alert(1)</script> never expire.", StrideCategory: model.StrideSpoofing, Severity: model.SeverityCritical, Status: model.FindingOpen, Remediation: "Use **short** lifetimes.", Source: model.FindingSourceAI},
	}
	return &Data{
		Title:        "Payments threat model",
		Kind:         model.ReportThreatModel,
		Organization: &model.Organization{Name: "Acme"},
		GeneratedBy:  "admin@acme.test",
		GeneratedAt:  created,
		ThreatModel: &model.ThreatModel{
			Name:   "Payments",
			Status: model.ThreatModelInProgress,
			Assets: []model.Asset{{Name: "ledger-db", Type: model.AssetDatabase, Criticality: model.SeverityHigh}},
		},
		Findings: findings,
		Summary:  Summarize(findings),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleData().Findings)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Open)
	require.Len(t, s.BySeverity, len(model.Severities))
	assert.Equal(t, Count{Label: "CRITICAL", Value: 1}, s.BySeverity[0])
	assert.Equal(t, Count{Label: "HIGH", Value: 0}, s.BySeverity[1])
	assert.Equal(t, Count{Label: "SPOOFING", Value: 1}, s.ByStride[0])
}

func TestSortFindings(t *testing.T) {
	findings := sampleData().Findings
	SortFindings(findings)
	assert.Equal(t, "Token replay", findings[0].Title)
	assert.Equal(t, "Verbose errors", findings[1].Title)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Information Disclosure", Label("INFORMATION_DISCLOSURE"))
	assert.Equal(t, "Threat Model", Label("THREAT_MODEL"))
	assert.Equal(t, "", Label(""))
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(sampleData())
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "<title>Payments threat model</title>")
	assert.Contains(t, out, "Acme &middot; Threat Model report generated 2026-03-01 12:00 UTC by admin@acme.test")
	assert.Contains(t, out, `<span class="badge critical">Critical</span> Token replay`)
	assert.Contains(t, out, "<strong>short</strong>")
	assert.Contains(t, out, "AI-assisted")
	assert.Contains(t, out, "<td>ledger-db</td><td>Database</td><td>High</td>")
	assert.NotContains(t, out, "<script>")
}

func TestNativeRenderer(t *testing.T) {
	r := &NativeRenderer{noCompress: true}
	pdf, err := r.RenderPDF(context.Background(), sampleData())
	require.NoError(t, err)

	require.NoError(t, pdfapi.Validate(bytes.NewReader(pdf), nil))
	pages, err := pdfapi.PageCount(bytes.NewReader(pdf), nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pages, 1)
	assert.Contains(t, string(pdf), "Token replay")
	assert.Contains(t, string(pdf), "Remediation")
}

func TestChromeRendererUnavailable(t *testing.T) {
	chrome := NewChromeRenderer("/nonexistent/chrome")
	_, err := chrome.RenderPDF(context.Background(), sampleData())
	assert.ErrorIs(t, err, ErrBrowserUnavailable)

	fallback := Fallback{Primary: chrome, Secondary: &NativeRenderer{}}
	pdf, err := fallback.RenderPDF(context.Background(), sampleData())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestRenderXLSX(t *testing.T) {
	data := sampleData()
	data.Dashboard = &store.Dashboard{Assets: 4, AssetsWithoutModel: 1}
	SortFindings(data.Findings)

	raw, err := RenderXLSX(data)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{summarySheet, findingsSheet}, f.GetSheetList())

	rows, err := f.GetRows(findingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, findingColumns, rows[0])
	assert.Equal(t, []string{"Token replay", "Critical", "Spoofing", "Open", "AI"}, rows[1][:5])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, "Payments threat model", summary[0][0])
	assert.Contains(t, summary, []string{"Assets without a threat model", "1"})
	assert.Contains(t, summary, []string{"Open findings", "1"})
}

func testSigner(t *testing.T) (*Signer, openpgp.EntityList) {
	t.Helper()
	entity, err := openpgp.NewEntity("Reports", "", "reports@bguard.test", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	signer, err := NewSigner(&buf, nil)
	require.NoError(t, err)
	return signer, openpgp.EntityList{entity}
}

func TestSigner(t *testing.T) {
	signer, keyring := testSigner(t)
	assert.NotEmpty(t, signer.KeyID())

	data := []byte("report body")
	sig, err := signer.Sign(data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sig, "-----BEGIN PGP SIGNATURE-----"))

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(data), strings.NewReader(sig), nil)
	assert.NoError(t, err)

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader([]byte("tampered")), strings.NewReader(sig), nil)
	assert.Error(t, err)

	_, err = NewSigner(strings.NewReader("not a key"), nil)
	assert.Error(t, err)
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "org/report.pdf", []byte("data"), ContentTypePDF))

	rc, err := s.Open(ctx, "org/report.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "data", string(body))

	url, err := s.URL(ctx, "org/report.pdf")
	require.NoError(t, err)
	assert.Empty(t, url)

	require.NoError(t, s.Delete(ctx, "org/report.pdf"))
	_, err = s.Open(ctx, "org/report.pdf")
	assert.ErrorIs(t, err, ErrArtifactNotFound)
	assert.NoError(t, s.Delete(ctx, "org/report.pdf"))

	assert.Error(t, s.Put(ctx, "../escape.pdf", []byte("x"), ContentTypePDF))
	assert.Error(t, s.Put(ctx, "/etc/passwd", []byte("x"), ContentTypePDF))
}

func TestGenerator(t *testing.T) {
	ctx := context.Background()
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer, keyring := testSigner(t)

	g := NewGenerator(NewNativeRenderer(), storage, signer)
	assert.True(t, g.Signing())

	for _, format := range []model.ReportFormat{model.ReportPDF, model.ReportXLSX} {
		t.Run(format.String(), func(t *testing.T) {
			r := &model.Report{OrganizationID: uuid.New(), Kind: model.ReportThreatModel, Format: format, Title: "Payments"}
			data := sampleData()
			data.Title = ""

			require.NoError(t, g.Generate(ctx, r, data))
			assert.Equal(t, model.ReportReady, r.Status)
			assert.NotEqual(t, uuid.Nil, r.ID)
			assert.True(t, strings.HasPrefix(r.StorageKey, r.OrganizationID.String()+"/"))
			assert.Equal(t, "Payments", data.Title)
			assert.True(t, r.Signed())

			rc, err := g.Open(ctx, r)
			require.NoError(t, err)
			body, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())

			sum := sha256.Sum256(body)
			assert.Equal(t, hex.EncodeToString(sum[:]), r.SHA256)
			assert.Equal(t, int64(len(body)), r.Size)

			_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(body), strings.NewReader(r.Signature), nil)
			assert.NoError(t, err)

			require.NoError(t, g.Remove(ctx, r))
			_, err = g.Open(ctx, r)
			assert.ErrorIs(t, err, ErrArtifactNotFound)
		})
	}
}

func TestGeneratorUnsupportedFormat(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	g := NewGenerator(NewNativeRenderer(), storage, nil)

	r := &model.Report{Format: model.ReportFormat(9)}
	assert.Error(t, g.Generate(context.Background(), r, &Data{}))
	assert.Equal(t, model.ReportFailed, r.Status)
	assert.NotEmpty(t, r.Error)
	assert.False(t, r.Signed())
}
