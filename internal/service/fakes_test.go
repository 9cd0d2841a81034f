package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/events"
	"github.com/spec-kit/trailer-admin/internal/notify"
	"github.com/spec-kit/trailer-admin/internal/repository"
	"github.com/spec-kit/trailer-admin/internal/storage"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type fakeUsers struct {
	items   map[string]domain.User
	seq     int
	getErr  error
	updates int
	deleted []string
}

func newFakeUsers(users ...domain.User) *fakeUsers {
	f := &fakeUsers{items: map[string]domain.User{}}
	for _, u := range users {
		f.items[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	u.CreatedAt, u.UpdatedAt = testNow, testNow
	f.items[u.ID] = *u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	if _, ok := f.items[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.updates++
	f.items[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, id := range sortedKeys(f.items) {
		if u := f.items[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var out []domain.User
	for _, id := range sortedKeys(f.items) {
		u := f.items[id]
		if filter.ApprovalStatus != nil && u.ApprovalStatus != *filter.ApprovalStatus {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeStaff struct {
	items     map[string]domain.StaffMember
	seq       int
	getErr    error
	createErr error
}

func newFakeStaff(members ...domain.StaffMember) *fakeStaff {
	f := &fakeStaff{items: map[string]domain.StaffMember{}}
	for _, m := range members {
		f.items[m.ID] = m
	}
	return f
}

func (f *fakeStaff) Create(_ context.Context, s *domain.StaffMember) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	s.ID = fmt.Sprintf("staff-%d", f.seq)
	f.items[s.ID] = *s
	return nil
}

func (f *fakeStaff) Update(_ context.Context, s *domain.StaffMember) error {
	if _, ok := f.items[s.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.items[s.ID] = *s
	return nil
}

func (f *fakeStaff) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (f *fakeStaff) GetByUserID(_ context.Context, userID string) (*domain.StaffMember, error) {
	for _, id := range sortedKeys(f.items) {
		if s := f.items[id]; s.UserID != nil && *s.UserID == userID {
			return &s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaff) List(context.Context, repository.StaffFilter) ([]domain.StaffMember, error) {
	var out []domain.StaffMember
	for _, id := range sortedKeys(f.items) {
		out = append(out, f.items[id])
	}
	return out, nil
}

func (f *fakeStaff) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStaff) SetActiveByUser(_ context.Context, userID string, active bool) error {
	for id, s := range f.items {
		if s.UserID != nil && *s.UserID == userID {
			s.Active = active
			f.items[id] = s
		}
	}
	return nil
}

type fakeTasks struct {
	items map[string]domain.Task
	seq   int
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{items: map[string]domain.Task{}}
}

func (f *fakeTasks) Create(_ context.Context, t *domain.Task) error {
	f.seq++
	t.ID = fmt.Sprintf("task-%d", f.seq)
	f.items[t.ID] = *t
	return nil
}

func (f *fakeTasks) Update(_ context.Context, t *domain.Task) error {
	if _, ok := f.items[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.items[t.ID] = *t
	return nil
}

func (f *fakeTasks) GetByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (f *fakeTasks) List(context.Context, repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, id := range sortedKeys(f.items) {
		out = append(out, f.items[id])
	}
	return out, nil
}

func (f *fakeTasks) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakePolicies struct {
	items      map[string]domain.InsurancePolicy
	seq        int
	updates    int
	statsCalls int
	stats      domain.InsuranceStats
}

func newFakePolicies(policies ...domain.InsurancePolicy) *fakePolicies {
	f := &fakePolicies{items: map[string]domain.InsurancePolicy{}}
	for _, p := range policies {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakePolicies) Create(_ context.Context, p *domain.InsurancePolicy) error {
	f.seq++
	p.ID = fmt.Sprintf("policy-%d", f.seq)
	f.items[p.ID] = *p
	return nil
}

func (f *fakePolicies) Update(_ context.Context, p *domain.InsurancePolicy) error {
	if _, ok := f.items[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.updates++
	f.items[p.ID] = *p
	return nil
}

func (f *fakePolicies) GetByID(_ context.Context, id string) (*domain.InsurancePolicy, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p.Documents = append([]domain.PolicyDocument(nil), p.Documents...)
	return &p, nil
}

func (f *fakePolicies) GetByPolicyNumber(_ context.Context, number string) (*domain.InsurancePolicy, error) {
	for _, id := range sortedKeys(f.items) {
		if p := f.items[id]; p.PolicyNumber == number {
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePolicies) List(_ context.Context, filter repository.InsuranceFilter) ([]domain.InsurancePolicy, error) {
	var out []domain.InsurancePolicy
	for _, id := range sortedKeys(f.items) {
		p := f.items[id]
		if filter.ExpiresFrom != nil && p.ExpiryDate.Before(*filter.ExpiresFrom) {
			continue
		}
		if filter.ExpiresTo != nil && p.ExpiryDate.After(*filter.ExpiresTo) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePolicies) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakePolicies) SetLastNotification(_ context.Context, id string, at time.Time) error {
	p, ok := f.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.LastNotificationSent = &at
	f.items[id] = p
	return nil
}

func (f *fakePolicies) ListReminderCandidates(_ context.Context, _ time.Time, _ int) ([]domain.InsurancePolicy, error) {
	var out []domain.InsurancePolicy
	for _, id := range sortedKeys(f.items) {
		out = append(out, f.items[id])
	}
	return out, nil
}

func (f *fakePolicies) Stats(context.Context, time.Time) (domain.InsuranceStats, error) {
	f.statsCalls++
	return f.stats, nil
}

type fakeTrailers struct {
	items map[string]domain.Trailer
	seq   int
}

func newFakeTrailers(trailers ...domain.Trailer) *fakeTrailers {
	f := &fakeTrailers{items: map[string]domain.Trailer{}}
	for _, t := range trailers {
		f.items[t.ID] = t
	}
	return f
}

func (f *fakeTrailers) Create(_ context.Context, t *domain.Trailer) error {
	f.seq++
	t.ID = fmt.Sprintf("trailer-%d", f.seq)
	f.items[t.ID] = *t
	return nil
}

func (f *fakeTrailers) Update(_ context.Context, t *domain.Trailer) error {
	if _, ok := f.items[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.items[t.ID] = *t
	return nil
}

func (f *fakeTrailers) GetByID(_ context.Context, id string) (*domain.Trailer, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (f *fakeTrailers) List(context.Context, repository.TrailerFilter) ([]domain.Trailer, error) {
	var out []domain.Trailer
	for _, id := range sortedKeys(f.items) {
		out = append(out, f.items[id])
	}
	return out, nil
}

func (f *fakeTrailers) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeCustomers struct {
	items map[string]domain.Customer
	seq   int
}

func newFakeCustomers(customers ...domain.Customer) *fakeCustomers {
	f := &fakeCustomers{items: map[string]domain.Customer{}}
	for _, c := range customers {
		f.items[c.ID] = c
	}
	return f
}

func (f *fakeCustomers) Create(_ context.Context, c *domain.Customer) error {
	f.seq++
	c.ID = fmt.Sprintf("customer-%d", f.seq)
	f.items[c.ID] = *c
	return nil
}

func (f *fakeCustomers) Update(_ context.Context, c *domain.Customer) error {
	if _, ok := f.items[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.items[c.ID] = *c
	return nil
}

func (f *fakeCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (f *fakeCustomers) List(context.Context, repository.CustomerFilter) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, id := range sortedKeys(f.items) {
		out = append(out, f.items[id])
	}
	return out, nil
}

func (f *fakeCustomers) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeDocuments struct {
	items     map[string]domain.Document
	seq       int
	createErr error
}

func newFakeDocuments(docs ...domain.Document) *fakeDocuments {
	f := &fakeDocuments{items: map[string]domain.Document{}}
	for _, d := range docs {
		f.items[d.ID] = d
	}
	return f
}

func (f *fakeDocuments) Create(_ context.Context, d *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	d.ID = fmt.Sprintf("doc-%d", f.seq)
	f.items[d.ID] = *d
	return nil
}

func (f *fakeDocuments) GetByID(_ context.Context, id string) (*domain.Document, error) {
	d, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &d, nil
}

func (f *fakeDocuments) List(context.Context, repository.DocumentFilter) ([]domain.Document, error) {
	var out []domain.Document
	for _, id := range sortedKeys(f.items) {
		out = append(out, f.items[id])
	}
	return out, nil
}

func (f *fakeDocuments) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeObjects struct {
	objects   map[string][]byte
	types     map[string]string
	putErr    error
	removeErr error
	removed   []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeObjects) Get(_ context.Context, key string) (*storage.Object, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{Body: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data)), ContentType: f.types[key]}, nil
}

func (f *fakeObjects) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	return nil
}

type fakeCache struct {
	stats       *domain.InsuranceStats
	invalidated int
}

func (c *fakeCache) Get(context.Context) (domain.InsuranceStats, bool) {
	if c.stats == nil {
		return domain.InsuranceStats{}, false
	}
	return *c.stats, true
}

func (c *fakeCache) Set(_ context.Context, stats domain.InsuranceStats) {
	c.stats = &stats
}

func (c *fakeCache) Invalidate(context.Context) {
	c.invalidated++
	c.stats = nil
}

type fakeMailer struct {
	sent []notify.Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, email notify.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

type recordingDispatcher struct {
	events.Dispatcher
	published []events.Event
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{Dispatcher: events.NewInMemoryDispatcher(nil)}
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return d.Dispatcher.Publish(ctx, event)
}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

func strPtr(s string) *string { return &s }
