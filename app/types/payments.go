package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the five-state lifecycle field of a payment. The
// service applies any of these values unconditionally on update; the
// lifecycle graph described in the product docs is not enforced.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
)

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid payment status %q", raw)
	}
	return status, nil
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending,
		PaymentStatusProcessing,
		PaymentStatusCompleted,
		PaymentStatusFailed,
		PaymentStatusCancelled:
		return true
	default:
		return false
	}
}

type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every violated field of a creation request.
// Error renders the "<field>: <message>" pairs joined by commas.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, ", ")
}

const (
	maxDescriptionLength = 500

	defaultListLimit = int32(100)
	maxListLimit     = int32(500)
)

var minAmountExclusive = decimal.NewFromFloat(0.01)

type CreatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	SenderID    string          `json:"senderId"`
	RecipientID string          `json:"recipientId"`
	Description string          `json:"description"`
}

func NewCreatePaymentRequestFromContext(ctx echo.Context) (*CreatePaymentRequest, error) {
	var body CreatePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.Currency = strings.ToUpper(strings.TrimSpace(body.Currency))
	body.SenderID = strings.TrimSpace(body.SenderID)
	body.RecipientID = strings.TrimSpace(body.RecipientID)
	body.Description = strings.TrimSpace(body.Description)

	return &body, nil
}

// Validate evaluates every rule eagerly and reports all violations
// together rather than failing on the first.
func (r *CreatePaymentRequest) Validate() error {
	rules := []struct {
		field   string
		message string
		ok      bool
	}{
		{"amount", "Amount must be greater than 0", r.Amount.GreaterThan(minAmountExclusive)},
		{"currency", "Currency must be 3 characters (e.g., USD, EUR)", len(strings.TrimSpace(r.Currency)) == 3},
		{"senderId", "Sender ID is required", strings.TrimSpace(r.SenderID) != ""},
		{"recipientId", "Recipient ID is required", strings.TrimSpace(r.RecipientID) != ""},
		{"description", "Description must be at most 500 characters", len(r.Description) <= maxDescriptionLength},
	}

	var fields []FieldError
	for _, rule := range rules {
		if !rule.ok {
			fields = append(fields, FieldError{Field: rule.field, Message: rule.message})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

type GetPaymentRequest struct {
	ID uint64
}

func NewGetPaymentRequestFromContext(ctx echo.Context) (*GetPaymentRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &GetPaymentRequest{ID: id}, nil
}

func (r *GetPaymentRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid payment id")
	}
	return nil
}

type ListPaymentsRequest struct {
	HasStatus bool
	Status    PaymentStatus
	Limit     int32
	Offset    int32
}

func NewListPaymentsRequestFromContext(ctx echo.Context) (*ListPaymentsRequest, error) {
	req := &ListPaymentsRequest{
		Limit:  defaultListLimit,
		Offset: 0,
	}

	if statusRaw := strings.TrimSpace(ctx.QueryParam("status")); statusRaw != "" {
		status, err := ParsePaymentStatus(statusRaw)
		if err != nil {
			return nil, err
		}
		req.HasStatus = true
		req.Status = status
	}

	if limitRaw := strings.TrimSpace(ctx.QueryParam("limit")); limitRaw != "" {
		limit, err := strconv.ParseInt(limitRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Limit = int32(limit)
	}

	if offsetRaw := strings.TrimSpace(ctx.QueryParam("offset")); offsetRaw != "" {
		offset, err := strconv.ParseInt(offsetRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Offset = int32(offset)
	}

	return req, nil
}

func (r *ListPaymentsRequest) Validate() error {
	if r.Limit == 0 {
		r.Limit = defaultListLimit
	}
	if r.Limit <= 0 || r.Limit > maxListLimit {
		return fmt.Errorf("limit must be between 1 and %d", maxListLimit)
	}
	if r.Offset < 0 {
		return errors.New("offset must be >= 0")
	}
	if r.HasStatus && !r.Status.IsValid() {
		return errors.New("invalid status")
	}
	return nil
}

type UpdatePaymentStatusRequest struct {
	ID     uint64
	Status PaymentStatus
}

func NewUpdatePaymentStatusRequestFromContext(ctx echo.Context) (*UpdatePaymentStatusRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}

	status, err := ParsePaymentStatus(ctx.QueryParam("status"))
	if err != nil {
		return nil, err
	}

	return &UpdatePaymentStatusRequest{ID: id, Status: status}, nil
}

func (r *UpdatePaymentStatusRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid payment id")
	}
	if !r.Status.IsValid() {
		return errors.New("invalid status")
	}
	return nil
}

type DeletePaymentRequest struct {
	ID uint64
}

func NewDeletePaymentRequestFromContext(ctx echo.Context) (*DeletePaymentRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &DeletePaymentRequest{ID: id}, nil
}

func (r *DeletePaymentRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid payment id")
	}
	return nil
}

// PaymentResponse is the external view of a stored payment. It exposes
// exactly the persisted fields the API contract names, never internal
// ones.
type PaymentResponse struct {
	ID          uint64          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	SenderID    string          `json:"senderId"`
	RecipientID string          `json:"recipientId"`
	Status      PaymentStatus   `json:"status"`
	Description *string         `json:"description"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type ErrorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
