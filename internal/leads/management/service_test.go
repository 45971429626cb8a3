package management

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads    map[uuid.UUID]repository.Lead
	details  map[uuid.UUID]repository.ConversionDetails
	statuses []string
	courses  int

	failStatusWrite bool
	statusWrites    int
}

func newFakeRepo() *fakeRepo {
	statuses := make([]string, 0)
	for _, s := range domain.AllStatuses() {
		statuses = append(statuses, string(s))
	}
	return &fakeRepo{
		leads:    make(map[uuid.UUID]repository.Lead),
		details:  make(map[uuid.UUID]repository.ConversionDetails),
		statuses: statuses,
		courses:  3,
	}
}

func (f *fakeRepo) addLead(status string, active bool) uuid.UUID {
	id := uuid.New()
	f.leads[id] = repository.Lead{
		ID:        id,
		Name:      "Asha Rao",
		Phone:     "+919876543210",
		Status:    status,
		IsActive:  active,
		CreatedAt: time.Now(),
	}
	return id
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) ExistsByPhone(_ context.Context, phone string, excludeID *uuid.UUID) (bool, error) {
	for id, lead := range f.leads {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if lead.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Lead, error) {
	out := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:            uuid.New(),
		Name:          params.Name,
		Phone:         params.Phone,
		Email:         params.Email,
		College:       params.College,
		Status:        params.Status,
		AssignedBOEID: params.AssignedBOEID,
		Pipeline:      params.Pipeline,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.Name != nil {
		lead.Name = *params.Name
	}
	if params.Phone != nil {
		lead.Phone = *params.Phone
	}
	if params.Email != nil {
		lead.Email = params.Email
	}
	if params.College != nil {
		lead.College = params.College
	}
	if params.Pipeline != nil {
		lead.Pipeline = params.Pipeline
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, params repository.UpdateStatusParams) (repository.Lead, error) {
	f.statusWrites++
	if f.failStatusWrite {
		return repository.Lead{}, errors.New("connection reset")
	}
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Status = params.Status
	lead.IsActive = params.IsActive
	if params.BumpRetry {
		lead.RetryCount++
	}
	if params.SetFollowUp {
		lead.NextFollowUpAt = params.NextFollowUpAt
	}
	if params.ConversionDue != nil {
		lead.ConversionDue = params.ConversionDue
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) SetFollowUp(_ context.Context, id uuid.UUID, at time.Time) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.NextFollowUpAt = &at
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) ListStatuses(_ context.Context) ([]string, error) {
	return f.statuses, nil
}

func (f *fakeRepo) GetConversionDetails(_ context.Context, leadID uuid.UUID) (*repository.ConversionDetails, error) {
	details, ok := f.details[leadID]
	if !ok {
		return nil, nil
	}
	return &details, nil
}

func (f *fakeRepo) UpsertConversionDetails(_ context.Context, details repository.ConversionDetails) error {
	f.details[details.LeadID] = details
	return nil
}

func (f *fakeRepo) ListCourses(_ context.Context) ([]repository.Course, error) {
	courses := make([]repository.Course, f.courses)
	for i := range courses {
		courses[i] = repository.Course{ID: uuid.New(), Name: "Course"}
	}
	return courses, nil
}

func (f *fakeRepo) CountCourses(_ context.Context) (int, error) {
	return f.courses, nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(string, events.Handler) {}

func newService(repo *fakeRepo) (*Service, *fakeBus) {
	bus := &fakeBus{}
	return New(repo, bus), bus
}

func errKind(t *testing.T, err error) apperr.Kind {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T: %v", err, err)
	}
	return appErr.Kind
}

func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }

func TestCreateRejectsDuplicatePhone(t *testing.T) {
	repo := newFakeRepo()
	repo.addLead(string(domain.StatusNew), true)
	svc, _ := newService(repo)

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:  "Second Lead",
		Phone: "+91 98765 43210",
	})
	if kind := errKind(t, err); kind != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", kind)
	}
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusDNR1), true)
	svc, _ := newService(repo)

	resp, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{
		Status: string(domain.StatusDNR1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(domain.StatusDNR1) {
		t.Fatalf("status changed: %s", resp.Status)
	}
	if repo.statusWrites != 0 {
		t.Fatalf("expected no status write, got %d", repo.statusWrites)
	}
}

func TestUpdateStatusRejectsClosedLead(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusNotInterested, domain.StatusDenied, domain.StatusConverted} {
		repo := newFakeRepo()
		id := repo.addLead(string(status), false)
		svc, _ := newService(repo)

		_, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{
			Status: string(domain.StatusDNR1),
		})
		if kind := errKind(t, err); kind != apperr.KindPreconditionFailed {
			t.Fatalf("%s: expected precondition failure, got %v", status, kind)
		}
	}
}

func TestUpdateStatusRejectsUnknownTarget(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusNew), true)
	svc, _ := newService(repo)

	_, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{
		Status: "Ghosted",
	})
	if kind := errKind(t, err); kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", kind)
	}
}

func TestUpdateStatusBumpsRetryOnCallOutcome(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusNew), true)
	svc, _ := newService(repo)

	resp, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{
		Status: string(domain.StatusCutCall),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RetryCount != 1 {
		t.Fatalf("expected retry count 1, got %d", resp.RetryCount)
	}
	if !resp.IsActive {
		t.Fatal("call outcome should leave the lead active")
	}
}

func TestConvertWithoutDetailsIsBlocked(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusCallBack), true)
	svc, _ := newService(repo)

	_, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{
		Status: string(domain.StatusConverted),
	})
	if kind := errKind(t, err); kind != apperr.KindPreconditionFailed {
		t.Fatalf("expected precondition failure, got %v", kind)
	}
	if lead := repo.leads[id]; lead.Status != string(domain.StatusCallBack) {
		t.Fatalf("status must not change on a blocked conversion, got %s", lead.Status)
	}
}

func TestConvertPersistsDetailsAndClosesLead(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusCallBack), true)
	svc, bus := newService(repo)

	resp, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{
		Status: string(domain.StatusConverted),
		Conversion: &transport.ConversionPayload{
			CourseName: stringPtr("Data Science"),
			CourseFee:  floatPtr(1000),
			AmountPaid: floatPtr(400),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.IsActive {
		t.Fatal("converted lead must be inactive")
	}
	if resp.Conversion == nil || resp.Conversion.DueAmount != 600 {
		t.Fatalf("expected due 600, got %+v", resp.Conversion)
	}

	stored, ok := repo.details[id]
	if !ok {
		t.Fatal("conversion details were not persisted")
	}
	if stored.DueAmount != 600 {
		t.Fatalf("stored due = %v, want 600", stored.DueAmount)
	}

	var converted bool
	for _, event := range bus.published {
		if event.EventName() == "leads.lead.converted" {
			converted = true
		}
	}
	if !converted {
		t.Fatal("expected a converted event")
	}
}

func TestConvertInvalidPayloadLeavesNothingBehind(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusCallBack), true)
	svc, _ := newService(repo)

	_, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{
		Status: string(domain.StatusConverted),
		Conversion: &transport.ConversionPayload{
			CourseName: stringPtr("Data Science"),
			CourseFee:  floatPtr(100),
			AmountPaid: floatPtr(500),
		},
	})
	if kind := errKind(t, err); kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", kind)
	}
	if _, ok := repo.details[id]; ok {
		t.Fatal("invalid payload must not be persisted")
	}
	if repo.statusWrites != 0 {
		t.Fatal("invalid payload must not touch the status")
	}
}

// A conversion whose status write fails leaves the validated financial
// record behind. Retrying without re-sending the payload must pick up
// the stored record and complete the move.
func TestConvertRetryAfterPartialFailure(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusCallBack), true)
	svc, _ := newService(repo)

	repo.failStatusWrite = true
	_, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{
		Status: string(domain.StatusConverted),
		Conversion: &transport.ConversionPayload{
			CourseName: stringPtr("Data Science"),
			CourseFee:  floatPtr(1000),
			AmountPaid: floatPtr(1000),
		},
	})
	if err == nil {
		t.Fatal("expected the status write to fail")
	}
	if _, ok := repo.details[id]; !ok {
		t.Fatal("details must survive the failed status write")
	}
	if repo.leads[id].Status != string(domain.StatusCallBack) {
		t.Fatal("status must be unchanged after the failure")
	}

	repo.failStatusWrite = false
	resp, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{
		Status: string(domain.StatusConverted),
	})
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if resp.Status != string(domain.StatusConverted) {
		t.Fatalf("retry left status %s", resp.Status)
	}
	if resp.Conversion == nil || resp.Conversion.DueAmount != 0 {
		t.Fatalf("retry lost the stored figures: %+v", resp.Conversion)
	}
}

func TestListRejectsUnknownCategory(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	_, err := svc.List(context.Background(), transport.ListLeadsRequest{Category: "bogus"})
	if kind := errKind(t, err); kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", kind)
	}
}

func TestRecordConversionDetailsBeforeStatusChange(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusNew), true)
	svc, _ := newService(repo)

	details, err := svc.RecordConversionDetails(context.Background(), id, transport.ConversionPayload{
		CourseName: stringPtr("Data Science"),
		CourseFee:  floatPtr(50000),
		AmountPaid: floatPtr(20000),
	})
	if err != nil {
		t.Fatalf("record details: %v", err)
	}
	if details.DueAmount != 30000 {
		t.Fatalf("expected due 30000, got %v", details.DueAmount)
	}

	// The lead's status is untouched; only the financial record exists.
	if repo.leads[id].Status != string(domain.StatusNew) {
		t.Fatalf("status changed to %q", repo.leads[id].Status)
	}
	if repo.statusWrites != 0 {
		t.Fatalf("expected no status writes, got %d", repo.statusWrites)
	}

	// The two-step commit can now finish without resending the figures.
	lead, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{
		Status: string(domain.StatusConverted),
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if lead.IsActive {
		t.Fatal("converted lead should be inactive")
	}
}

func TestRecordConversionDetailsRejectsDeniedLead(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusDenied), false)
	svc, _ := newService(repo)

	_, err := svc.RecordConversionDetails(context.Background(), id, transport.ConversionPayload{
		CourseName: stringPtr("Data Science"),
		CourseFee:  floatPtr(50000),
	})
	if kind := errKind(t, err); kind != apperr.KindPreconditionFailed {
		t.Fatalf("expected precondition failure, got %v", kind)
	}
	if len(repo.details) != 0 {
		t.Fatal("no details should be stored for a denied lead")
	}
}

func TestAmendConversionRefreshesDueOnLead(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusConverted), false)
	repo.details[id] = repository.ConversionDetails{
		LeadID:     id,
		CourseName: stringPtr("Data Science"),
		CourseFee:  50000,
		AmountPaid: 20000,
		DueAmount:  30000,
	}
	svc, _ := newService(repo)

	details, err := svc.RecordConversionDetails(context.Background(), id, transport.ConversionPayload{
		CourseName: stringPtr("Data Science"),
		CourseFee:  floatPtr(50000),
		AmountPaid: floatPtr(45000),
	})
	if err != nil {
		t.Fatalf("amend details: %v", err)
	}
	if details.DueAmount != 5000 {
		t.Fatalf("expected due 5000, got %v", details.DueAmount)
	}

	lead := repo.leads[id]
	if lead.ConversionDue == nil || *lead.ConversionDue != 5000 {
		t.Fatalf("lead due not refreshed: %v", lead.ConversionDue)
	}
	if lead.Status != string(domain.StatusConverted) || lead.IsActive {
		t.Fatalf("amendment must not reopen the lead: %q active=%v", lead.Status, lead.IsActive)
	}
}

func TestGetConversionDetailsNilWhenAbsent(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusNew), true)
	svc, _ := newService(repo)

	details, err := svc.GetConversionDetails(context.Background(), id)
	if err != nil {
		t.Fatalf("get details: %v", err)
	}
	if details != nil {
		t.Fatalf("expected nil details, got %+v", details)
	}
}

func TestSetFollowUpRejectsClosedLead(t *testing.T) {
	repo := newFakeRepo()
	id := repo.addLead(string(domain.StatusDenied), false)
	svc, _ := newService(repo)

	_, err := svc.SetFollowUp(context.Background(), id, transport.FollowUpRequest{
		NextFollowUpAt: time.Now().Add(24 * time.Hour),
	})
	if kind := errKind(t, err); kind != apperr.KindPreconditionFailed {
		t.Fatalf("expected precondition failure, got %v", kind)
	}
}
