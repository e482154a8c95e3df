package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain/billing"
)

type fakeBillingRepo struct {
	records  map[uuid.UUID]*billing.BillingRecord
	policies map[uuid.UUID]*billing.InsurancePolicy
}

func newFakeBillingRepo() *fakeBillingRepo {
	return &fakeBillingRepo{
		records:  map[uuid.UUID]*billing.BillingRecord{},
		policies: map[uuid.UUID]*billing.InsurancePolicy{},
	}
}

func (f *fakeBillingRepo) CreateRecord(_ context.Context, r *billing.BillingRecord) error {
	r.ID = uuid.New()
	f.records[r.ID] = r
	return nil
}

func (f *fakeBillingRepo) GetRecord(_ context.Context, id uuid.UUID) (*billing.BillingRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, billing.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeBillingRepo) UpdateRecord(_ context.Context, id uuid.UUID, cmd *billing.UpdateRecordCommand) (*billing.BillingRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, billing.ErrRecordNotFound
	}
	if cmd.Status != nil {
		r.Status = *cmd.Status
	}
	if cmd.PaymentAmount != nil {
		r.PaymentAmount = cmd.PaymentAmount
	}
	return r, nil
}

func (f *fakeBillingRepo) DeleteRecord(_ context.Context, id uuid.UUID) error {
	if _, ok := f.records[id]; !ok {
		return billing.ErrRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeBillingRepo) ListRecords(_ context.Context, _ *billing.ListRecordsQuery) (*billing.PagedRecords, error) {
	return &billing.PagedRecords{}, nil
}

func (f *fakeBillingRepo) CreatePolicy(_ context.Context, p *billing.InsurancePolicy) error {
	p.ID = uuid.New()
	f.policies[p.ID] = p
	return nil
}

func (f *fakeBillingRepo) GetPolicy(_ context.Context, id uuid.UUID) (*billing.InsurancePolicy, error) {
	p, ok := f.policies[id]
	if !ok {
		return nil, billing.ErrPolicyNotFound
	}
	return p, nil
}

func (f *fakeBillingRepo) UpdatePolicy(_ context.Context, id uuid.UUID, _ *billing.UpdatePolicyCommand) (*billing.InsurancePolicy, error) {
	p, ok := f.policies[id]
	if !ok {
		return nil, billing.ErrPolicyNotFound
	}
	return p, nil
}

func (f *fakeBillingRepo) DeletePolicy(_ context.Context, id uuid.UUID) error {
	if _, ok := f.policies[id]; !ok {
		return billing.ErrPolicyNotFound
	}
	delete(f.policies, id)
	return nil
}

func (f *fakeBillingRepo) ListPolicies(_ context.Context, _ *billing.ListPoliciesQuery) (*billing.PagedPolicies, error) {
	return &billing.PagedPolicies{}, nil
}

func (f *fakeBillingRepo) SumInWindow(_ context.Context, _, _ *time.Time) (*billing.Totals, error) {
	return &billing.Totals{}, nil
}

func newBillingService(repo billing.Repository) *BillingService {
	return NewBillingService(repo, newTestAudit(), zap.NewNop())
}

func TestCreateRecordRejectsNegativeAmount(t *testing.T) {
	svc := newBillingService(newFakeBillingRepo())

	_, err := svc.CreateRecord(context.Background(), staffActor(), &billing.CreateRecordCommand{
		PatientID:          uuid.New(),
		ServiceDate:        time.Now(),
		ServiceDescription: "Office visit",
		Amount:             decimal.NewFromFloat(-120.00),
	}, "")
	assert.ErrorIs(t, err, billing.ErrNegativeAmount)
}

func TestCreateRecordDefaultsToPending(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := newBillingService(repo)

	r, err := svc.CreateRecord(context.Background(), staffActor(), &billing.CreateRecordCommand{
		PatientID:          uuid.New(),
		ServiceDate:        time.Now(),
		ServiceDescription: "Office visit",
		Amount:             decimal.NewFromFloat(180.50),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPending, r.Status)
	assert.True(t, r.Amount.Equal(decimal.NewFromFloat(180.50)))
}

func TestUpdateRecordRejectsNegativePayment(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := newBillingService(repo)

	r := &billing.BillingRecord{ID: uuid.New(), Amount: decimal.NewFromInt(100)}
	repo.records[r.ID] = r

	neg := decimal.NewFromInt(-5)
	_, err := svc.UpdateRecord(context.Background(), staffActor(), r.ID, &billing.UpdateRecordCommand{
		PaymentAmount: &neg,
	}, "")
	assert.ErrorIs(t, err, billing.ErrNegativeAmount)
}

func TestCreatePolicyRejectsCoverageEndBeforeStart(t *testing.T) {
	svc := newBillingService(newFakeBillingRepo())

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -6, 0)
	_, err := svc.CreatePolicy(context.Background(), staffActor(), &billing.CreatePolicyCommand{
		PatientID:             uuid.New(),
		ProviderName:          "Granite Mutual",
		PolicyNumber:          "GM-88412",
		SubscriberName:        "Dana Reyes",
		RelationshipToPatient: "Self",
		CoverageStartDate:     start,
		CoverageEndDate:       &end,
	}, "")
	assert.ErrorIs(t, err, billing.ErrCoverageEndFirst)
}

func TestCreatePolicyStartsActive(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := newBillingService(repo)

	p, err := svc.CreatePolicy(context.Background(), staffActor(), &billing.CreatePolicyCommand{
		PatientID:             uuid.New(),
		ProviderName:          "Granite Mutual",
		PolicyNumber:          "GM-88412",
		SubscriberName:        "Dana Reyes",
		RelationshipToPatient: "Self",
		CoverageStartDate:     time.Now(),
	}, "")
	require.NoError(t, err)
	assert.True(t, p.IsActive)
}
