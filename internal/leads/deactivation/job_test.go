package deactivation

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"dealership_crm_backend/internal/audit"
	"dealership_crm_backend/internal/events"
	"dealership_crm_backend/internal/leads/domain"
	"dealership_crm_backend/platform/logger"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu          sync.Mutex
	leads       map[int64]*domain.Lead
	failIDs     map[int64]error
	selectErr   error
	deactivated []int64
	criteria    []domain.StaleCriteria
}

func newFakeStore(leads ...domain.Lead) *fakeStore {
	s := &fakeStore{leads: map[int64]*domain.Lead{}, failIDs: map[int64]error{}}
	for i := range leads {
		l := leads[i]
		s.leads[l.ID] = &l
	}
	return s
}

func (s *fakeStore) ListStale(_ context.Context, c domain.StaleCriteria) ([]domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = append(s.criteria, c)
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	var out []domain.Lead
	for _, l := range s.leads {
		if c.IsStale(*l) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) Deactivate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.failIDs[id]; err != nil {
		return err
	}
	s.leads[id].IsActive = false
	s.deactivated = append(s.deactivated, id)
	return nil
}

func (s *fakeStore) active(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leads[id].IsActive
}

type captureSink struct {
	entries []audit.Entry
	err     error
}

func (c *captureSink) Record(_ context.Context, e audit.Entry) error {
	c.entries = append(c.entries, e)
	return c.err
}

type scriptedConfirmer struct {
	answer    bool
	questions []string
	defaults  []bool
}

func (c *scriptedConfirmer) Confirm(_ context.Context, question string, defaultYes bool) (bool, error) {
	c.questions = append(c.questions, question)
	c.defaults = append(c.defaults, defaultYes)
	return c.answer, nil
}

func staleLead(id int64, status domain.LeadStatus, daysAgo int) domain.Lead {
	return domain.Lead{
		ID:        id,
		LeadName:  "Lead " + string(rune('A'+id-1)),
		Status:    status,
		Priority:  domain.PriorityMedium,
		IsActive:  true,
		UpdatedAt: testNow.AddDate(0, 0, -daysAgo),
	}
}

func threeNotConverted() *fakeStore {
	return newFakeStore(
		staleLead(1, domain.StatusNotConverted, 100),
		staleLead(2, domain.StatusNotConverted, 100),
		staleLead(3, domain.StatusNotConverted, 100),
	)
}

func newTestJob(store Store, sink audit.Sink, bus events.Bus, log *logger.Logger) *Job {
	if log == nil {
		log = logger.Discard()
	}
	return New(store, sink, bus, log, Config{
		DefaultThresholdDays: 90,
		Now:                  func() time.Time { return testNow },
	})
}

func TestRunDeactivatesConfirmedCandidates(t *testing.T) {
	store := threeNotConverted()
	sink := &captureSink{}
	confirm := &scriptedConfirmer{answer: true}
	var out bytes.Buffer

	res, err := newTestJob(store, sink, nil, nil).Run(context.Background(), Options{
		Interactive: true,
		Confirmer:   confirm,
		Out:         &out,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Outcome != OutcomeApplied || res.Deactivated != 3 {
		t.Fatalf("expected 3 applied, got %s/%d", res.Outcome, res.Deactivated)
	}
	for id := int64(1); id <= 3; id++ {
		if store.active(id) {
			t.Fatalf("lead %d still active", id)
		}
	}
	if len(confirm.questions) != 1 || confirm.questions[0] != "Do you want to deactivate these 3 leads?" || !confirm.defaults[0] {
		t.Fatalf("unexpected confirmation: %v %v", confirm.questions, confirm.defaults)
	}
	if len(sink.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.Event != audit.EventLeadsDeactivated || entry.DeactivatedCount != 3 || entry.ThresholdDays != 90 || entry.StatusFilter != nil {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
	if !strings.Contains(out.String(), "Successfully deactivated 3 leads.") {
		t.Fatalf("missing summary in output:\n%s", out.String())
	}
}

func TestRunDryRunChangesNothing(t *testing.T) {
	store := threeNotConverted()
	sink := &captureSink{}
	confirm := &scriptedConfirmer{answer: true}
	var out bytes.Buffer

	res, err := newTestJob(store, sink, nil, nil).Run(context.Background(), Options{
		DryRun:      true,
		Interactive: true,
		Confirmer:   confirm,
		Out:         &out,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Outcome != OutcomeDryRun || res.Deactivated != 0 || len(res.Candidates) != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(store.deactivated) != 0 {
		t.Fatalf("dry run mutated leads: %v", store.deactivated)
	}
	for id := int64(1); id <= 3; id++ {
		if !store.active(id) {
			t.Fatalf("lead %d was deactivated", id)
		}
	}
	if len(confirm.questions) != 0 {
		t.Fatal("dry run must not prompt")
	}
	if len(sink.entries) != 0 {
		t.Fatal("dry run must not audit")
	}
	if !strings.Contains(out.String(), "No changes were made") {
		t.Fatalf("dry run notice missing:\n%s", out.String())
	}
}

func TestRunIsolatesPerLeadFailures(t *testing.T) {
	store := threeNotConverted()
	store.failIDs[2] = errors.New("check constraint violated")
	sink := &captureSink{}
	var logs, out bytes.Buffer

	res, err := newTestJob(store, sink, nil, logger.NewWithWriter("production", &logs)).Run(context.Background(), Options{Out: &out})
	if err != nil {
		t.Fatalf("partial failure must not fail the run: %v", err)
	}

	if res.Deactivated != 2 || len(res.Failed) != 1 || res.Failed[0].LeadID != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if store.active(1) || store.active(3) || !store.active(2) {
		t.Fatal("expected leads 1 and 3 deactivated and lead 2 untouched")
	}
	if sink.entries[0].DeactivatedCount != 2 {
		t.Fatalf("audit should count successes, got %d", sink.entries[0].DeactivatedCount)
	}
	if !strings.Contains(logs.String(), `"msg":"lead_deactivation_failed"`) || !strings.Contains(logs.String(), `"leadId":2`) {
		t.Fatalf("failure log missing:\n%s", logs.String())
	}
	if !strings.Contains(out.String(), "Failed to deactivate lead #2") {
		t.Fatalf("failure line missing:\n%s", out.String())
	}
}

func TestRunWithNoCandidatesShortCircuits(t *testing.T) {
	store := newFakeStore(staleLead(1, domain.StatusNew, 10))
	sink := &captureSink{}
	confirm := &scriptedConfirmer{answer: true}
	var out bytes.Buffer

	res, err := newTestJob(store, sink, nil, nil).Run(context.Background(), Options{
		Interactive: true,
		Confirmer:   confirm,
		Out:         &out,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Outcome != OutcomeNone {
		t.Fatalf("expected none outcome, got %s", res.Outcome)
	}
	if len(confirm.questions) != 0 || len(store.deactivated) != 0 || len(sink.entries) != 0 {
		t.Fatal("empty selection must not prompt, mutate or audit")
	}
	if got := strings.TrimSpace(out.String()); got != "No leads found that have been inactive for 90 days." {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRunNoneMessageNamesStatusFilter(t *testing.T) {
	status := domain.StatusConverted
	var out bytes.Buffer

	_, err := newTestJob(threeNotConverted(), &captureSink{}, nil, nil).Run(context.Background(), Options{Status: &status, Out: &out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "with status converted.") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunDeclinedConfirmationCancels(t *testing.T) {
	store := threeNotConverted()
	sink := &captureSink{}
	var out bytes.Buffer

	res, err := newTestJob(store, sink, nil, nil).Run(context.Background(), Options{
		Interactive: true,
		Confirmer:   &scriptedConfirmer{answer: false},
		Out:         &out,
	})
	if err != nil {
		t.Fatalf("cancellation is not an error: %v", err)
	}
	if res.Outcome != OutcomeCancelled || len(store.deactivated) != 0 || len(sink.entries) != 0 {
		t.Fatalf("unexpected cancelled run: %+v", res)
	}
	if !strings.Contains(out.String(), "Operation cancelled.") {
		t.Fatalf("cancel notice missing:\n%s", out.String())
	}
}

func TestRunNonInteractiveAutoConfirms(t *testing.T) {
	store := threeNotConverted()
	confirm := &scriptedConfirmer{answer: false}

	res, err := newTestJob(store, &captureSink{}, nil, nil).Run(context.Background(), Options{Confirmer: confirm})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(confirm.questions) != 0 {
		t.Fatal("non-interactive run must not prompt")
	}
	if res.Outcome != OutcomeApplied || res.Deactivated != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRunInteractiveWithoutConfirmerFails(t *testing.T) {
	store := threeNotConverted()
	sink := &captureSink{}

	_, err := newTestJob(store, sink, nil, nil).Run(context.Background(), Options{Interactive: true})
	if !errors.Is(err, ErrNoConfirmer) {
		t.Fatalf("expected ErrNoConfirmer, got %v", err)
	}
	if len(store.deactivated) != 0 || len(store.criteria) != 0 || len(sink.entries) != 0 {
		t.Fatal("run without a confirmer must not select or deactivate")
	}
}

func TestRunStatusFilterAndThresholdOverride(t *testing.T) {
	store := newFakeStore(
		staleLead(1, domain.StatusNew, 40),
		staleLead(2, domain.StatusNew, 40),
		staleLead(3, domain.StatusNotConverted, 40),
		staleLead(4, domain.StatusNotConverted, 40),
		staleLead(5, domain.StatusNotConverted, 20),
	)
	sink := &captureSink{}
	days := 30
	status := domain.StatusNotConverted

	res, err := newTestJob(store, sink, nil, nil).Run(context.Background(), Options{ThresholdDays: &days, Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Deactivated != 2 || store.active(3) || store.active(4) {
		t.Fatalf("expected leads 3 and 4 deactivated, got %+v", res)
	}
	if !store.active(1) || !store.active(2) || !store.active(5) {
		t.Fatal("leads outside the filter or threshold were touched")
	}
	if store.criteria[0].ThresholdDays != 30 || !store.criteria[0].Now.Equal(testNow) {
		t.Fatalf("unexpected criteria: %+v", store.criteria[0])
	}
	got := sink.entries[0]
	if got.ThresholdDays != 30 || got.StatusFilter == nil || *got.StatusFilter != "not_converted" {
		t.Fatalf("unexpected audit entry: %+v", got)
	}
}

func TestRunRejectsNonPositiveThreshold(t *testing.T) {
	days := 0
	_, err := newTestJob(threeNotConverted(), &captureSink{}, nil, nil).Run(context.Background(), Options{ThresholdDays: &days})
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
}

func TestRunReturnsSelectError(t *testing.T) {
	store := threeNotConverted()
	store.selectErr = errors.New("connection refused")

	_, err := newTestJob(store, &captureSink{}, nil, nil).Run(context.Background(), Options{})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected select error, got %v", err)
	}
}

func TestRunAuditFailureDoesNotFailRun(t *testing.T) {
	sink := &captureSink{err: errors.New("broker down")}

	res, err := newTestJob(threeNotConverted(), sink, nil, nil).Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Deactivated != 3 {
		t.Fatalf("expected 3 deactivated, got %d", res.Deactivated)
	}
}

func TestRunAppliesWholeSnapshotAfterCancellation(t *testing.T) {
	store := threeNotConverted()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestJob(store, &captureSink{}, nil, nil).Run(ctx, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Deactivated != 3 {
		t.Fatalf("expected the full batch to apply, got %d", res.Deactivated)
	}
}

func TestRunPreviewTable(t *testing.T) {
	var out bytes.Buffer

	_, err := newTestJob(threeNotConverted(), &captureSink{}, nil, nil).Run(context.Background(), Options{DryRun: true, Out: &out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Found 3 leads inactive for 90+ days:") {
		t.Fatalf("missing count line:\n%s", text)
	}
	upper := strings.ToUpper(text)
	for _, col := range []string{"ID", "LEAD NAME", "STATUS", "UPDATED AT", "DAYS INACTIVE"} {
		if !strings.Contains(upper, col) {
			t.Fatalf("missing column %q:\n%s", col, text)
		}
	}
	if !strings.Contains(text, "Not Converted") || !strings.Contains(text, "100") {
		t.Fatalf("missing row values:\n%s", text)
	}
}

func TestRunPublishesDigestEvent(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())
	var (
		mu  sync.Mutex
		got []events.LeadsDeactivated
	)
	bus.Subscribe(events.LeadsDeactivated{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(events.LeadsDeactivated))
		return nil
	}))

	_, err := newTestJob(threeNotConverted(), &captureSink{}, bus, nil).Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bus.Wait()

	if len(got) != 1 || got[0].DeactivatedCount != 3 || len(got[0].Leads) != 3 || got[0].Leads[0].DaysInactive != 100 {
		t.Fatalf("unexpected events: %+v", got)
	}
}
