package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"store-roster/backend/internal/model"
	"store-roster/backend/internal/notify"
	pkgerrors "store-roster/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if employee.EmployeeID == "" {
		employee.EmployeeID = "emp-" + employee.ExternalRef
	}
	m.employees[employee.EmployeeID] = employee
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context, includeInactive bool) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if !includeInactive && !e.IsActive {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *mockEmployeeRepo) ListByRole(_ context.Context, role string) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if e.IsActive && e.HasRole(role) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, employee *model.Employee) error {
	stored, ok := m.employees[employee.EmployeeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != employee.Version {
		return pkgerrors.ErrOptimisticLock
	}
	employee.Version++
	m.employees[employee.EmployeeID] = employee
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.employees, id)
	return nil
}

// ── Mock WorkEventRepository ──

type mockWorkEventRepo struct {
	events    map[string]*model.WorkEvent
	idCounter int
	listErr   error // 注入 ListUnscheduled 失败
}

func newMockWorkEventRepo() *mockWorkEventRepo {
	return &mockWorkEventRepo{events: make(map[string]*model.WorkEvent)}
}

func (m *mockWorkEventRepo) Create(_ context.Context, event *model.WorkEvent) error {
	m.idCounter++
	if event.WorkEventID == "" {
		event.WorkEventID = fmt.Sprintf("ev-%d", m.idCounter)
	}
	if event.Status == "" {
		event.Status = model.EventStatusUnscheduled
	}
	m.events[event.WorkEventID] = event
	return nil
}

func (m *mockWorkEventRepo) GetByID(_ context.Context, id string) (*model.WorkEvent, error) {
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkEventRepo) GetByExternalRef(_ context.Context, ref string) (*model.WorkEvent, error) {
	for _, e := range m.events {
		if e.ExternalRef == ref {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkEventRepo) List(_ context.Context, status, category string, _, _ int) ([]model.WorkEvent, int64, error) {
	var result []model.WorkEvent
	for _, e := range m.events {
		if status != "" && e.Status != status {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkEventID < result[j].WorkEventID })
	return result, int64(len(result)), nil
}

func (m *mockWorkEventRepo) ListUnscheduled(_ context.Context) ([]model.WorkEvent, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.WorkEvent
	for _, e := range m.events {
		if e.Status == model.EventStatusUnscheduled {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkEventID < result[j].WorkEventID })
	return result, nil
}

func (m *mockWorkEventRepo) ListScheduledBetween(_ context.Context, from, to time.Time) ([]model.WorkEvent, error) {
	var result []model.WorkEvent
	for _, e := range m.events {
		if e.Status != model.EventStatusScheduled || e.ScheduledAt == nil {
			continue
		}
		if e.ScheduledAt.Before(from) || !e.ScheduledAt.Before(to) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkEventID < result[j].WorkEventID })
	return result, nil
}

func (m *mockWorkEventRepo) ListScheduledByEmployee(_ context.Context, employeeID string) ([]model.WorkEvent, error) {
	var result []model.WorkEvent
	for _, e := range m.events {
		if e.Status == model.EventStatusScheduled && e.AssignedEmployeeID != nil && *e.AssignedEmployeeID == employeeID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkEventID < result[j].WorkEventID })
	return result, nil
}

func (m *mockWorkEventRepo) Update(_ context.Context, event *model.WorkEvent) error {
	stored, ok := m.events[event.WorkEventID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != event.Version {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version++
	m.events[event.WorkEventID] = event
	return nil
}

func (m *mockWorkEventRepo) MarkScheduled(_ context.Context, id, employeeID string, scheduledAt time.Time) error {
	stored, ok := m.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = model.EventStatusScheduled
	stored.AssignedEmployeeID = &employeeID
	stored.ScheduledAt = &scheduledAt
	return nil
}

func (m *mockWorkEventRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.events, id)
	return nil
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	windows   map[string]*model.AvailabilityWindow
	idCounter int
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{windows: make(map[string]*model.AvailabilityWindow)}
}

func (m *mockAvailabilityRepo) Create(_ context.Context, window *model.AvailabilityWindow) error {
	m.idCounter++
	if window.AvailabilityID == "" {
		window.AvailabilityID = fmt.Sprintf("aw-%d", m.idCounter)
	}
	m.windows[window.AvailabilityID] = window
	return nil
}

func (m *mockAvailabilityRepo) GetByID(_ context.Context, id string) (*model.AvailabilityWindow, error) {
	if w, ok := m.windows[id]; ok {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAvailabilityRepo) ListByEmployee(_ context.Context, employeeID string) ([]model.AvailabilityWindow, error) {
	var result []model.AvailabilityWindow
	for _, w := range m.windows {
		if w.EmployeeID == employeeID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (m *mockAvailabilityRepo) ListAll(_ context.Context) ([]model.AvailabilityWindow, error) {
	var result []model.AvailabilityWindow
	for _, w := range m.windows {
		result = append(result, *w)
	}
	return result, nil
}

func (m *mockAvailabilityRepo) Update(_ context.Context, window *model.AvailabilityWindow) error {
	m.windows[window.AvailabilityID] = window
	return nil
}

func (m *mockAvailabilityRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.windows, id)
	return nil
}

// ── Mock TimeOffRepository ──

type mockTimeOffRepo struct {
	records   map[string]*model.TimeOff
	idCounter int
}

func newMockTimeOffRepo() *mockTimeOffRepo {
	return &mockTimeOffRepo{records: make(map[string]*model.TimeOff)}
}

func (m *mockTimeOffRepo) Create(_ context.Context, timeOff *model.TimeOff) error {
	m.idCounter++
	if timeOff.TimeOffID == "" {
		timeOff.TimeOffID = fmt.Sprintf("to-%d", m.idCounter)
	}
	m.records[timeOff.TimeOffID] = timeOff
	return nil
}

func (m *mockTimeOffRepo) GetByID(_ context.Context, id string) (*model.TimeOff, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeOffRepo) ListByEmployee(_ context.Context, employeeID string) ([]model.TimeOff, error) {
	var result []model.TimeOff
	for _, r := range m.records {
		if r.EmployeeID == employeeID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockTimeOffRepo) ListApprovedBetween(_ context.Context, from, to time.Time) ([]model.TimeOff, error) {
	var result []model.TimeOff
	for _, r := range m.records {
		if r.Approved && !r.EndDate.Before(from) && !r.StartDate.After(to) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockTimeOffRepo) Update(_ context.Context, timeOff *model.TimeOff) error {
	m.records[timeOff.TimeOffID] = timeOff
	return nil
}

func (m *mockTimeOffRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.records, id)
	return nil
}

// ── Mock RotationSlotRepository ──

type mockRotationSlotRepo struct {
	slots map[string]*model.RotationSlot
}

func newMockRotationSlotRepo() *mockRotationSlotRepo {
	return &mockRotationSlotRepo{slots: make(map[string]*model.RotationSlot)}
}

func (m *mockRotationSlotRepo) Create(_ context.Context, slot *model.RotationSlot) error {
	if slot.RotationSlotID == "" {
		slot.RotationSlotID = fmt.Sprintf("rs-%s-%d", slot.Role, slot.DayOfWeek)
	}
	m.slots[slot.RotationSlotID] = slot
	return nil
}

func (m *mockRotationSlotRepo) GetByID(_ context.Context, id string) (*model.RotationSlot, error) {
	if s, ok := m.slots[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRotationSlotRepo) ListAll(_ context.Context) ([]model.RotationSlot, error) {
	var result []model.RotationSlot
	for _, s := range m.slots {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockRotationSlotRepo) Update(_ context.Context, slot *model.RotationSlot) error {
	m.slots[slot.RotationSlotID] = slot
	return nil
}

func (m *mockRotationSlotRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.slots, id)
	return nil
}

// ── Mock RotationExceptionRepository ──

type mockRotationExceptionRepo struct {
	exceptions map[string]*model.RotationException
	idCounter  int
}

func newMockRotationExceptionRepo() *mockRotationExceptionRepo {
	return &mockRotationExceptionRepo{exceptions: make(map[string]*model.RotationException)}
}

func (m *mockRotationExceptionRepo) Create(_ context.Context, exc *model.RotationException) error {
	m.idCounter++
	if exc.RotationExceptionID == "" {
		exc.RotationExceptionID = fmt.Sprintf("re-%d", m.idCounter)
	}
	m.exceptions[exc.RotationExceptionID] = exc
	return nil
}

func (m *mockRotationExceptionRepo) GetByID(_ context.Context, id string) (*model.RotationException, error) {
	if e, ok := m.exceptions[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRotationExceptionRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.RotationException, error) {
	var result []model.RotationException
	for _, e := range m.exceptions {
		if !e.Date.Before(from) && !e.Date.After(to) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockRotationExceptionRepo) Update(_ context.Context, exc *model.RotationException) error {
	m.exceptions[exc.RotationExceptionID] = exc
	return nil
}

func (m *mockRotationExceptionRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.exceptions, id)
	return nil
}

// ── Mock ProposalRepository ──

type mockProposalRepo struct {
	proposals   map[string]*model.PendingProposal
	assignments map[string]*model.ProposalAssignment
	failedItems map[string][]model.ProposalFailedItem
	idCounter   int
}

func newMockProposalRepo() *mockProposalRepo {
	return &mockProposalRepo{
		proposals:   make(map[string]*model.PendingProposal),
		assignments: make(map[string]*model.ProposalAssignment),
		failedItems: make(map[string][]model.ProposalFailedItem),
	}
}

func (m *mockProposalRepo) CreateWithItems(_ context.Context, proposal *model.PendingProposal, assignments []model.ProposalAssignment, failed []model.ProposalFailedItem) error {
	m.idCounter++
	if proposal.ProposalID == "" {
		proposal.ProposalID = fmt.Sprintf("prop-%d", m.idCounter)
	}
	if proposal.Version == 0 {
		proposal.Version = 1
	}
	if proposal.CreatedAt.IsZero() {
		proposal.CreatedAt = time.Now()
	}
	m.proposals[proposal.ProposalID] = proposal

	for i := range assignments {
		m.idCounter++
		a := assignments[i]
		if a.AssignmentID == "" {
			a.AssignmentID = fmt.Sprintf("as-%d", m.idCounter)
		}
		a.ProposalID = proposal.ProposalID
		if a.Version == 0 {
			a.Version = 1
		}
		m.assignments[a.AssignmentID] = &a
	}
	for i := range failed {
		m.idCounter++
		fi := failed[i]
		if fi.FailedItemID == "" {
			fi.FailedItemID = fmt.Sprintf("fi-%d", m.idCounter)
		}
		fi.ProposalID = proposal.ProposalID
		m.failedItems[proposal.ProposalID] = append(m.failedItems[proposal.ProposalID], fi)
	}
	return nil
}

func (m *mockProposalRepo) GetByID(_ context.Context, id string) (*model.PendingProposal, error) {
	if p, ok := m.proposals[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProposalRepo) GetWithItems(ctx context.Context, id string) (*model.PendingProposal, error) {
	cp, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cp.Assignments, _ = m.ListAssignments(ctx, id)
	cp.FailedItems = append([]model.ProposalFailedItem(nil), m.failedItems[id]...)
	return cp, nil
}

func (m *mockProposalRepo) List(_ context.Context, status string, _, _ int) ([]model.PendingProposal, int64, error) {
	var result []model.PendingProposal
	for _, p := range m.proposals {
		if status != "" && p.Status != status {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, int64(len(result)), nil
}

func (m *mockProposalRepo) ListOpenByScope(ctx context.Context, scope string) ([]model.PendingProposal, error) {
	open := map[string]bool{
		model.ProposalStatusDraft:              true,
		model.ProposalStatusApproved:           true,
		model.ProposalStatusCommitting:         true,
		model.ProposalStatusPartiallyCommitted: true,
	}
	var result []model.PendingProposal
	for _, p := range m.proposals {
		if p.Scope != scope || !open[p.Status] {
			continue
		}
		cp := *p
		cp.Assignments, _ = m.ListAssignments(ctx, p.ProposalID)
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProposalID < result[j].ProposalID })
	return result, nil
}

func (m *mockProposalRepo) ListAssignments(_ context.Context, proposalID string) ([]model.ProposalAssignment, error) {
	var result []model.ProposalAssignment
	for _, a := range m.assignments {
		if a.ProposalID == proposalID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ScheduledAt.Equal(result[j].ScheduledAt) {
			return result[i].ScheduledAt.Before(result[j].ScheduledAt)
		}
		return result[i].WorkEventID < result[j].WorkEventID
	})
	return result, nil
}

func (m *mockProposalRepo) GetAssignment(_ context.Context, assignmentID string) (*model.ProposalAssignment, error) {
	if a, ok := m.assignments[assignmentID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProposalRepo) UpdateStatus(_ context.Context, proposal *model.PendingProposal) error {
	stored, ok := m.proposals[proposal.ProposalID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != proposal.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = proposal.Status
	stored.ApprovedAt = proposal.ApprovedAt
	stored.ApprovedBy = proposal.ApprovedBy
	stored.AckRequired = proposal.AckRequired
	stored.UpdatedBy = proposal.UpdatedBy
	stored.Version++
	proposal.Version = stored.Version
	return nil
}

func (m *mockProposalRepo) UpdateAssignment(_ context.Context, assignment *model.ProposalAssignment) error {
	stored, ok := m.assignments[assignment.AssignmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != assignment.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.EmployeeID = assignment.EmployeeID
	stored.ScheduledAt = assignment.ScheduledAt
	stored.Origin = assignment.Origin
	stored.Rationale = assignment.Rationale
	stored.UpdatedBy = assignment.UpdatedBy
	stored.Version++
	assignment.Version = stored.Version
	return nil
}

func (m *mockProposalRepo) UpdateAssignmentCommit(_ context.Context, assignmentID, commitStatus, commitError string, committedAt *time.Time) error {
	stored, ok := m.assignments[assignmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.CommitStatus = commitStatus
	stored.CommitError = commitError
	stored.CommittedAt = committedAt
	return nil
}

// ── Mock ProposalEditRepository ──

type mockProposalEditRepo struct {
	edits     []model.ProposalEdit
	idCounter int
}

func newMockProposalEditRepo() *mockProposalEditRepo {
	return &mockProposalEditRepo{}
}

func (m *mockProposalEditRepo) Create(_ context.Context, edit *model.ProposalEdit) error {
	m.idCounter++
	if edit.EditID == "" {
		edit.EditID = fmt.Sprintf("edit-%d", m.idCounter)
	}
	m.edits = append(m.edits, *edit)
	return nil
}

func (m *mockProposalEditRepo) ListByProposal(_ context.Context, proposalID string) ([]model.ProposalEdit, error) {
	var result []model.ProposalEdit
	for _, e := range m.edits {
		if e.ProposalID == proposalID {
			result = append(result, e)
		}
	}
	return result, nil
}

// ── Mock RunHistoryRepository ──

type mockRunHistoryRepo struct {
	histories map[string]*model.RunHistory
}

func newMockRunHistoryRepo() *mockRunHistoryRepo {
	return &mockRunHistoryRepo{histories: make(map[string]*model.RunHistory)}
}

func (m *mockRunHistoryRepo) Create(_ context.Context, history *model.RunHistory) error {
	m.histories[history.RunID] = history
	return nil
}

func (m *mockRunHistoryRepo) GetByID(_ context.Context, runID string) (*model.RunHistory, error) {
	if h, ok := m.histories[runID]; ok {
		return h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRunHistoryRepo) List(_ context.Context, scope string, _, _ int) ([]model.RunHistory, int64, error) {
	var result []model.RunHistory
	for _, h := range m.histories {
		if scope != "" && h.Scope != scope {
			continue
		}
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartedAt.After(result[j].StartedAt) })
	return result, int64(len(result)), nil
}

func (m *mockRunHistoryRepo) ListUnacknowledgedCrashes(_ context.Context) ([]model.RunHistory, error) {
	var result []model.RunHistory
	for _, h := range m.histories {
		if h.Status == model.RunStatusCrashed && !h.Acknowledged {
			result = append(result, *h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RunID < result[j].RunID })
	return result, nil
}

func (m *mockRunHistoryRepo) Acknowledge(_ context.Context, runID string) error {
	h, ok := m.histories[runID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h.Acknowledged = true
	return nil
}

// ── Mock SettingsRepository ──

type mockSettingsRepo struct {
	row *model.SchedulerSettings
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{}
}

func (m *mockSettingsRepo) Get(_ context.Context) (*model.SchedulerSettings, error) {
	return m.row, nil
}

func (m *mockSettingsRepo) Upsert(_ context.Context, settings *model.SchedulerSettings) error {
	if m.row != nil && m.row.Version != settings.Version {
		return pkgerrors.ErrOptimisticLock
	}
	settings.Version++
	if settings.SettingsID == "" {
		settings.SettingsID = "settings-1"
	}
	m.row = settings
	return nil
}

// ── Mock Notifier ──

type mockNotifier struct {
	runSummaries   []notify.RunSummary
	commitFailures []notify.CommitFailure
}

func (m *mockNotifier) RunCompleted(_ context.Context, s notify.RunSummary) {
	m.runSummaries = append(m.runSummaries, s)
}

func (m *mockNotifier) CommitPartiallyFailed(_ context.Context, f notify.CommitFailure) {
	m.commitFailures = append(m.commitFailures, f)
}

// ── Mock SystemOfRecord ──

// mockSystemOfRecord 按事件外部编号注入提交失败
type mockSystemOfRecord struct {
	failRefs map[string]error
	calls    []string
}

func newMockSystemOfRecord() *mockSystemOfRecord {
	return &mockSystemOfRecord{failRefs: make(map[string]error)}
}

func (m *mockSystemOfRecord) CommitAssignment(_ context.Context, workEventRef, _ string, _ time.Time) error {
	m.calls = append(m.calls, workEventRef)
	if err, ok := m.failRefs[workEventRef]; ok {
		return err
	}
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
