package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-p2p-payments/app/entity"
	"github.com/vibast-solutions/ms-go-p2p-payments/app/repository"
	"github.com/vibast-solutions/ms-go-p2p-payments/app/types"
	"github.com/vibast-solutions/ms-go-p2p-payments/config"
)

const defaultListLimit = int32(100)

type paymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	Update(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uint64) (*entity.Payment, error)
	List(ctx context.Context, filter repository.PaymentFilter) ([]*entity.Payment, error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	DeleteByID(ctx context.Context, id uint64) error
}

// PaymentService orchestrates validation, status mutation, and
// persistence for payment records. Every operation is synchronous and
// single-record; concurrent writes against the same id are last-write-
// wins by contract.
type PaymentService struct {
	paymentRepo paymentRepository
	paymentsCfg config.PaymentsConfig
}

func NewPaymentService(paymentRepo paymentRepository, paymentsCfg config.PaymentsConfig) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		paymentsCfg: paymentsCfg,
	}
}

// CreatePayment validates the request, then persists a new record with
// status forced to PENDING no matter what the caller supplied.
func (s *PaymentService) CreatePayment(ctx context.Context, req *types.CreatePaymentRequest) (*entity.Payment, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payment := &entity.Payment{
		Amount:      req.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		SenderID:    strings.TrimSpace(req.SenderID),
		RecipientID: strings.TrimSpace(req.RecipientID),
		Status:      string(types.PaymentStatusPending),
		Description: normalizeOptionalString(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uint64) (*entity.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, req *types.ListPaymentsRequest) ([]*entity.Payment, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit()
	}
	if max := s.paymentsCfg.MaxListLimit; max > 0 && limit > max {
		limit = max
	}

	filter := repository.PaymentFilter{
		HasStatus: req.HasStatus,
		Status:    string(req.Status),
		Limit:     limit,
		Offset:    req.Offset,
	}

	return s.paymentRepo.List(ctx, filter)
}

// UpdatePaymentStatus overwrites the status with whatever valid value
// was requested and refreshes updated_at. There is deliberately no
// adjacency check against the current status.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, req *types.UpdatePaymentStatusRequest) (*entity.Payment, error) {
	if !req.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	payment, err := s.paymentRepo.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	payment.Status = string(req.Status)
	payment.UpdatedAt = time.Now().UTC()

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	return payment, nil
}

// DeletePayment checks existence and then deletes. The two store calls
// are not atomic; a concurrent delete of the same id surfaces as a
// successful no-op, which the single-writer assumption accepts.
func (s *PaymentService) DeletePayment(ctx context.Context, id uint64) error {
	exists, err := s.paymentRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPaymentNotFound
	}

	return s.paymentRepo.DeleteByID(ctx, id)
}

func (s *PaymentService) defaultLimit() int32 {
	if s.paymentsCfg.DefaultListLimit > 0 {
		return s.paymentsCfg.DefaultListLimit
	}
	return defaultListLimit
}

func normalizeOptionalString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
