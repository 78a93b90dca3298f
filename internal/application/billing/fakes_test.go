package billing_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/optimizar-ia/facturador/internal/application/billing"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de puertos
// ──────────────────────────────────────────────────────────────────────────────

type fakeWebhook struct {
	mu       sync.Mutex
	payloads []any
	result   *entity.SubmissionResult
	err      error
}

func (f *fakeWebhook) Send(_ context.Context, payload any) (*entity.SubmissionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		r := *f.result
		return &r, nil
	}
	return &entity.SubmissionResult{OK: true, StatusCode: 200, Response: []byte(`{"status":"ok"}`)}, nil
}

type fakeArchive struct {
	saved []any
	err   error
}

func (f *fakeArchive) Save(_ context.Context, payload any, at time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, payload)
	return "data/invoice_" + at.Format("20060102_150405") + ".json", nil
}

type fakePDF struct {
	doc billing.PreviewDocument
}

func (f *fakePDF) GeneratePreviewPDF(_ context.Context, doc billing.PreviewDocument) ([]byte, error) {
	f.doc = doc
	return []byte("%PDF-1.3 fake"), nil
}

type fakeMetrics struct {
	finalizeOK, finalizeFail int
	submissions              []bool
	archives                 []bool
}

func (m *fakeMetrics) ObserveFinalize(valid bool) {
	if valid {
		m.finalizeOK++
	} else {
		m.finalizeFail++
	}
}

func (m *fakeMetrics) ObserveSubmission(_ string, ok bool, _ time.Duration) {
	m.submissions = append(m.submissions, ok)
}

func (m *fakeMetrics) ObserveArchive(ok bool) { m.archives = append(m.archives, ok) }

var errConexion = errors.New("dial tcp: connection refused")
