package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-p2p-payments/app/entity"
	"github.com/vibast-solutions/ms-go-p2p-payments/app/types"
)

// PaymentToResponse shapes a persisted payment into its external view.
// An entity without an id has never been persisted and must not reach
// this boundary; that is a programming error, so it panics rather than
// returning a user-facing failure.
func PaymentToResponse(item *entity.Payment) *types.PaymentResponse {
	if item == nil {
		return nil
	}
	if item.ID == 0 {
		panic("mapper: payment without id reached the response boundary")
	}

	return &types.PaymentResponse{
		ID:          item.ID,
		Amount:      item.Amount,
		Currency:    item.Currency,
		SenderID:    item.SenderID,
		RecipientID: item.RecipientID,
		Status:      types.PaymentStatus(item.Status),
		Description: item.Description,
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func PaymentsToResponse(items []*entity.Payment) []*types.PaymentResponse {
	result := make([]*types.PaymentResponse, 0, len(items))
	for _, item := range items {
		result = append(result, PaymentToResponse(item))
	}
	return result
}
