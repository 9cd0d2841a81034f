package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/events"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

type insuranceFixture struct {
	svc        *InsuranceService
	policies   *fakePolicies
	cache      *fakeCache
	dispatcher *recordingDispatcher
	mailer     *fakeMailer
}

func newInsuranceFixture(policies ...domain.InsurancePolicy) insuranceFixture {
	f := insuranceFixture{
		policies:   newFakePolicies(policies...),
		cache:      &fakeCache{},
		dispatcher: newRecordingDispatcher(),
		mailer:     &fakeMailer{},
	}
	NewNotificationService(f.dispatcher, f.mailer, []string{"fleet@example.com"}, nil, nil).RegisterHandlers()
	f.svc = NewInsuranceService(InsuranceDependencies{
		PolicyRepo:   f.policies,
		TrailerRepo:  newFakeTrailers(domain.Trailer{ID: "trailer-1", TrailerNo: "T-001", Status: domain.TrailerActive}),
		DocumentRepo: newFakeDocuments(domain.Document{ID: "doc-1", Type: domain.DocumentInsurance}),
		Cache:        f.cache,
		Dispatcher:   f.dispatcher,
		Clock:        fixedClock,
	})
	return f
}

func storedPolicy(id string, expiresIn time.Duration) domain.InsurancePolicy {
	return domain.InsurancePolicy{
		ID:                 id,
		TrailerID:          "trailer-1",
		Provider:           "Acme Mutual",
		PolicyNumber:       "POL-" + id,
		PolicyType:         domain.PolicyComprehensive,
		StartDate:          testNow.AddDate(-1, 0, 0),
		ExpiryDate:         testNow.Add(expiresIn),
		Premium:            decimal.NewFromInt(1200),
		PremiumFrequency:   domain.PremiumAnnual,
		VerificationStatus: domain.VerificationPending,
		Status:             domain.InsuranceActive,
		NotifyBeforeDays:   domain.DefaultNotifyBeforeDays,
		NotifyByEmail:      true,
	}
}

func validInsuranceInput(expiry time.Time) InsuranceInput {
	start := testNow.AddDate(0, -1, 0)
	premium := decimal.RequireFromString("950.50")
	return InsuranceInput{
		TrailerID:    "trailer-1",
		Provider:     "Acme Mutual",
		PolicyNumber: "POL-100",
		StartDate:    &start,
		ExpiryDate:   &expiry,
		Premium:      &premium,
	}
}

const day = 24 * time.Hour

func TestCreatePolicyAppliesDefaultsAndDerivesStatus(t *testing.T) {
	f := newInsuranceFixture()

	p, err := f.svc.Create(context.Background(), validInsuranceInput(testNow.AddDate(1, 0, 0)))
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyComprehensive, p.PolicyType)
	assert.Equal(t, domain.PremiumAnnual, p.PremiumFrequency)
	assert.Equal(t, domain.DefaultNotifyBeforeDays, p.NotifyBeforeDays)
	assert.True(t, p.NotifyByEmail)
	assert.Equal(t, domain.VerificationPending, p.VerificationStatus)
	assert.Equal(t, domain.InsuranceActive, p.Status)
	assert.Equal(t, 1, f.cache.invalidated)

	in := validInsuranceInput(testNow.Add(10 * day))
	in.PolicyNumber = "POL-101"
	p, err = f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.InsuranceExpiring, p.Status)
}

func TestCreatePolicyErrors(t *testing.T) {
	f := newInsuranceFixture(storedPolicy("existing", 90*day))

	missingTrailer := validInsuranceInput(testNow.AddDate(1, 0, 0))
	missingTrailer.TrailerID = "trailer-404"
	_, err := f.svc.Create(context.Background(), missingTrailer)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)

	duplicate := validInsuranceInput(testNow.AddDate(1, 0, 0))
	duplicate.PolicyNumber = "POL-existing"
	_, err = f.svc.Create(context.Background(), duplicate)
	assert.Equal(t, http.StatusConflict, apperrors.ToDomainError(err).HTTPStatus)

	noExpiry := validInsuranceInput(testNow)
	noExpiry.ExpiryDate = nil
	_, err = f.svc.Create(context.Background(), noExpiry)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Contains(t, de.Details, "expiryDate")

	backwards := validInsuranceInput(testNow.AddDate(-2, 0, 0))
	_, err = f.svc.Create(context.Background(), backwards)
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	assert.Len(t, f.policies.items, 1)
}

func TestUpdatePolicyRederivesStatus(t *testing.T) {
	f := newInsuranceFixture(storedPolicy("p1", 200*day))

	expiry := testNow.Add(-2 * day)
	start := testNow.AddDate(-1, 0, 0)
	p, err := f.svc.Update(context.Background(), "p1", InsuranceInput{StartDate: &start, ExpiryDate: &expiry})
	require.NoError(t, err)
	assert.Equal(t, domain.InsuranceExpired, p.Status)
	assert.Equal(t, domain.InsuranceExpired, f.policies.items["p1"].Status)
	assert.Equal(t, "Acme Mutual", p.Provider)
}

func TestVerifyPolicy(t *testing.T) {
	f := newInsuranceFixture(storedPolicy("p1", 5*day))

	p, err := f.svc.Verify(context.Background(), "p1", "u-admin")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationVerified, p.VerificationStatus)
	require.NotNil(t, p.VerifiedBy)
	assert.Equal(t, "u-admin", *p.VerifiedBy)
	assert.Equal(t, testNow, *p.VerifiedAt)
	assert.Equal(t, domain.InsuranceExpiring, p.Status)
	assert.Equal(t, []events.EventType{events.EventInsuranceVerified}, f.dispatcher.types())
}

func TestRejectPolicyRequiresReason(t *testing.T) {
	f := newInsuranceFixture(storedPolicy("p1", 90*day))

	_, err := f.svc.Reject(context.Background(), "p1", "u-admin", "   ")
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
	assert.Zero(t, f.policies.updates)
	assert.Equal(t, domain.VerificationPending, f.policies.items["p1"].VerificationStatus)

	p, err := f.svc.Reject(context.Background(), "p1", "u-admin", " Coverage too low ")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationRejected, p.VerificationStatus)
	assert.Equal(t, "Coverage too low", p.RejectionReason)
	assert.Equal(t, []events.EventType{events.EventInsuranceRejected}, f.dispatcher.types())
}

func TestRequestUpdateAndCancel(t *testing.T) {
	f := newInsuranceFixture(storedPolicy("p1", 90*day))

	p, err := f.svc.RequestUpdate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationRequiresUpdate, p.VerificationStatus)

	p, err = f.svc.Cancel(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.InsuranceCancelled, p.Status)

	// cancelled survives a later write while outside the reminder window
	p, err = f.svc.Verify(context.Background(), "p1", "u-admin")
	require.NoError(t, err)
	assert.Equal(t, domain.InsuranceCancelled, p.Status)
}

func TestAttachDocument(t *testing.T) {
	f := newInsuranceFixture(storedPolicy("p1", 90*day))

	_, err := f.svc.AttachDocument(context.Background(), "p1", "doc-404", "")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.AttachDocument(context.Background(), "p1", "doc-1", "Receipt")
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	p, err := f.svc.AttachDocument(context.Background(), "p1", "doc-1", "")
	require.NoError(t, err)
	require.Len(t, p.Documents, 1)
	assert.Equal(t, domain.PolicyDocumentPolicy, p.Documents[0].DocumentType)

	p, err = f.svc.AttachDocument(context.Background(), "p1", "doc-1", domain.PolicyDocumentCertificate)
	require.NoError(t, err)
	assert.Len(t, p.Documents, 2)
	assert.Len(t, f.policies.items["p1"].Documents, 2)
}

func TestLinkDocuSign(t *testing.T) {
	f := newInsuranceFixture(storedPolicy("p1", 90*day))

	_, err := f.svc.LinkDocuSign(context.Background(), "p1", "")
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	p, err := f.svc.LinkDocuSign(context.Background(), "p1", "env-123")
	require.NoError(t, err)
	assert.Equal(t, "env-123", p.DocusignEnvelopeID)
}

func TestMarkNotifiedLeavesStatusAlone(t *testing.T) {
	stale := storedPolicy("p1", 10*day)
	stale.Status = domain.InsuranceActive
	f := newInsuranceFixture(stale)

	p, err := f.svc.MarkNotified(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, p.LastNotificationSent)
	assert.Equal(t, testNow, *p.LastNotificationSent)
	assert.Equal(t, domain.InsuranceActive, p.Status)
	assert.Equal(t, domain.VerificationPending, p.VerificationStatus)
	assert.Zero(t, f.policies.updates)
}

func TestListExpiringSoon(t *testing.T) {
	f := newInsuranceFixture(storedPolicy("soon", 12*day), storedPolicy("later", 60*day), storedPolicy("past", -3*day))

	list, err := f.svc.List(context.Background(), InsuranceQuery{ExpiringSoon: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "soon", list[0].ID)
}

func TestStatsAreCached(t *testing.T) {
	f := newInsuranceFixture(storedPolicy("p1", 90*day))
	f.policies.stats = domain.InsuranceStats{TotalPolicies: 1, ActivePolicies: 1}

	first, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	second, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.policies.statsCalls)

	_, err = f.svc.MarkNotified(context.Background(), "p1")
	require.NoError(t, err)
	_, err = f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.policies.statsCalls)
}

func TestSendDueReminders(t *testing.T) {
	due := storedPolicy("due", 7*day)
	sentThisMonth := storedPolicy("sent", 7*day)
	earlier := testNow.Add(-3 * day)
	sentThisMonth.LastNotificationSent = &earlier
	sentLastMonth := storedPolicy("stale", -2*day)
	lastMonth := testNow.AddDate(0, -1, 0)
	sentLastMonth.LastNotificationSent = &lastMonth
	healthy := storedPolicy("healthy", 120*day)
	quiet := storedPolicy("quiet", 3*day)
	quiet.NotifyByEmail = false

	f := newInsuranceFixture(due, sentThisMonth, sentLastMonth, healthy, quiet)

	sent, err := f.svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, f.mailer.sent, 2)
	assert.Equal(t, []string{"fleet@example.com"}, f.mailer.sent[0].To)
	assert.Contains(t, f.mailer.sent[0].Subject, "POL-due")
	assert.Contains(t, f.mailer.sent[1].Subject, "expired")

	assert.Equal(t, testNow, *f.policies.items["due"].LastNotificationSent)
	assert.Equal(t, earlier, *f.policies.items["sent"].LastNotificationSent)
	assert.Nil(t, f.policies.items["healthy"].LastNotificationSent)
	assert.Nil(t, f.policies.items["quiet"].LastNotificationSent)

	again, err := f.svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestSendDueRemindersKeepsFailedDeliveriesUnmarked(t *testing.T) {
	f := newInsuranceFixture(storedPolicy("due", 7*day))
	f.mailer.err = assert.AnError

	sent, err := f.svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Nil(t, f.policies.items["due"].LastNotificationSent)
}

func TestSendDueRemindersWithoutRecipientsLeavesPolicyDue(t *testing.T) {
	smsOnly := storedPolicy("sms", 5*day)
	smsOnly.NotifyByEmail = false
	smsOnly.NotifyBySMS = true
	policies := newFakePolicies(storedPolicy("due", 7*day), smsOnly)
	dispatcher := newRecordingDispatcher()
	mailer := &fakeMailer{}
	NewNotificationService(dispatcher, mailer, nil, nil, nil).RegisterHandlers()
	svc := NewInsuranceService(InsuranceDependencies{
		PolicyRepo: policies,
		Dispatcher: dispatcher,
		Clock:      fixedClock,
	})

	sent, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, mailer.sent)
	assert.Len(t, dispatcher.published, 2)
	assert.Nil(t, policies.items["due"].LastNotificationSent)
	assert.Nil(t, policies.items["sms"].LastNotificationSent)
	assert.True(t, domain.DueForReminder(testNow, ptrPolicy(policies.items["due"])))
}

func ptrPolicy(p domain.InsurancePolicy) *domain.InsurancePolicy {
	return &p
}
