package service

import (
	"context"
	"fmt"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
)

type paymentService struct {
	paymentRepo repository.PaymentRepository
	rentalRepo  repository.RentalRepository
	now         func() time.Time
}

func NewPaymentService(paymentRepo repository.PaymentRepository, rentalRepo repository.RentalRepository) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		rentalRepo:  rentalRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *paymentService) RecordPayment(ctx context.Context, p domain.Principal, in PaymentInput) (*domain.Payment, error) {
	logger.EnterMethod("paymentService.RecordPayment", "userID", p.UserID, "rentalID", in.RentalID, "amount", in.Amount.String())
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrValidation)
	}
	if _, err := s.rentalRepo.GetByID(ctx, p.UserID, in.RentalID); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		UserID:      p.UserID,
		RentalID:    in.RentalID,
		Amount:      in.Amount,
		Method:      in.Method,
		PaymentDate: in.PaymentDate.Time,
		Notes:       in.Notes,
	}
	if payment.Method == "" {
		payment.Method = domain.DefaultPaymentMethod
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = s.now()
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		logger.ExitMethodWithError("paymentService.RecordPayment", err)
		return nil, err
	}
	logger.ExitMethod("paymentService.RecordPayment", "paymentID", payment.ID)
	return payment, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, p domain.Principal, paymentID int64) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	return s.paymentRepo.Delete(ctx, p.UserID, paymentID)
}

func (s *paymentService) ListPayments(ctx context.Context, p domain.Principal, filter domain.PaymentFilter) ([]domain.Payment, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if filter.Method != "" && !filter.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, filter.Method)
	}
	return s.paymentRepo.List(ctx, p.UserID, filter)
}

// GetSummary compares a rental's total with what has been paid against it.
// BalanceDue goes negative when the rental is overpaid.
func (s *paymentService) GetSummary(ctx context.Context, p domain.Principal, rentalID int64) (*domain.PaymentSummary, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	rental, err := s.rentalRepo.GetByID(ctx, p.UserID, rentalID)
	if err != nil {
		return nil, err
	}
	paid, err := s.paymentRepo.SumByRental(ctx, p.UserID, rentalID)
	if err != nil {
		return nil, err
	}
	return &domain.PaymentSummary{
		RentalID:    rental.ID,
		TotalAmount: rental.TotalAmount,
		PaidAmount:  paid,
		BalanceDue:  rental.TotalAmount.Sub(paid),
	}, nil
}
