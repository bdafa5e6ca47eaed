package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/store"
	"go.uber.org/zap"
)

var (
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrLesseeNotFound       = errors.New("lessee not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrWrongCategory        = errors.New("operation does not apply to this tenant category")
)

// BillingService manages lessees, students and their payments for the
// rentals and school categories.
type BillingService struct {
	policy       *PolicyService
	billingStore domain.BillingStore
	logger       *zap.Logger
}

func NewBillingService(policy *PolicyService, bs domain.BillingStore, logger *zap.Logger) *BillingService {
	return &BillingService{policy: policy, billingStore: bs, logger: logger}
}

func (s *BillingService) CreateLessee(ctx context.Context, callerID, tenantID uuid.UUID, name, phone, unitLabel string) (*domain.Lessee, error) {
	tenant, err := s.policy.AuthorizeTenant(ctx, callerID, tenantID, domain.ActionManageStaff)
	if err != nil {
		return nil, err
	}
	if tenant.Category != domain.CategoryRentals {
		return nil, ErrWrongCategory
	}
	if name == "" {
		return nil, ErrNameRequired
	}

	l := &domain.Lessee{TenantID: tenantID, Name: name, Phone: phone, UnitLabel: unitLabel, Active: true}
	if err := s.billingStore.CreateLessee(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *BillingService) CreateStudent(ctx context.Context, callerID, tenantID uuid.UUID, name, guardianPhone, classLabel string) (*domain.Student, error) {
	tenant, err := s.policy.AuthorizeTenant(ctx, callerID, tenantID, domain.ActionManageStaff)
	if err != nil {
		return nil, err
	}
	if tenant.Category != domain.CategorySchool {
		return nil, ErrWrongCategory
	}
	if name == "" {
		return nil, ErrNameRequired
	}

	st := &domain.Student{TenantID: tenantID, Name: name, GuardianPhone: guardianPhone, ClassLabel: classLabel, Active: true}
	if err := s.billingStore.CreateStudent(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// RecordRentPayment records a payment for a lessee. Status defaults to
// paid with the current timestamp when the caller does not supply one.
func (s *BillingService) RecordRentPayment(ctx context.Context, callerID, tenantID, lesseeID uuid.UUID, amount int64, status domain.PaymentStatus, period string) (*domain.RentPayment, error) {
	tenant, err := s.policy.AuthorizeTenant(ctx, callerID, tenantID, domain.ActionRecordPayment)
	if err != nil {
		return nil, err
	}
	if tenant.Category != domain.CategoryRentals {
		return nil, ErrWrongCategory
	}
	status, paidAt, err := normalizePayment(amount, status)
	if err != nil {
		return nil, err
	}

	if _, err := s.billingStore.GetLessee(ctx, lesseeID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLesseeNotFound
		}
		return nil, err
	}

	p := &domain.RentPayment{
		TenantID: tenantID,
		LesseeID: lesseeID,
		Amount:   amount,
		Status:   status,
		Period:   period,
		PaidAt:   paidAt,
	}
	if err := s.billingStore.CreateRentPayment(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("rent payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("lessee_id", lesseeID.String()),
		zap.Int64("amount", amount))
	return p, nil
}

func (s *BillingService) RecordFeePayment(ctx context.Context, callerID, tenantID, studentID uuid.UUID, amount int64, status domain.PaymentStatus, period string) (*domain.FeePayment, error) {
	tenant, err := s.policy.AuthorizeTenant(ctx, callerID, tenantID, domain.ActionRecordPayment)
	if err != nil {
		return nil, err
	}
	if tenant.Category != domain.CategorySchool {
		return nil, ErrWrongCategory
	}
	status, paidAt, err := normalizePayment(amount, status)
	if err != nil {
		return nil, err
	}

	if _, err := s.billingStore.GetStudent(ctx, studentID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	p := &domain.FeePayment{
		TenantID:  tenantID,
		StudentID: studentID,
		Amount:    amount,
		Status:    status,
		Period:    period,
		PaidAt:    paidAt,
	}
	if err := s.billingStore.CreateFeePayment(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("fee payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("student_id", studentID.String()),
		zap.Int64("amount", amount))
	return p, nil
}

func normalizePayment(amount int64, status domain.PaymentStatus) (domain.PaymentStatus, *time.Time, error) {
	if amount <= 0 {
		return "", nil, ErrInvalidPaymentAmount
	}
	if status == "" {
		status = domain.PaymentPaid
	}
	if !domain.ValidPaymentStatus(string(status)) {
		return "", nil, ErrInvalidPaymentStatus
	}
	var paidAt *time.Time
	if status == domain.PaymentPaid {
		now := time.Now()
		paidAt = &now
	}
	return status, paidAt, nil
}
