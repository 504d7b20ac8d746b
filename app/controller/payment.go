package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-p2p-payments/app/factory"
	"github.com/vibast-solutions/ms-go-p2p-payments/app/mapper"
	"github.com/vibast-solutions/ms-go-p2p-payments/app/service"
	"github.com/vibast-solutions/ms-go-p2p-payments/app/types"
)

type PaymentController struct {
	paymentService *service.PaymentService
	logger         logrus.FieldLogger
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         factory.NewModuleLogger("payments-controller"),
	}
}

func (c *PaymentController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *PaymentController) CreatePayment(ctx echo.Context) error {
	req, err := types.NewCreatePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}

	item, err := c.paymentService.CreatePayment(ctx.Request().Context(), req)
	if err != nil {
		var validationErr *types.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return c.writeError(ctx, http.StatusBadRequest, "Validation failed: "+validationErr.Error())
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create payment failed")
			return c.writeInternalError(ctx, err)
		}
	}

	return ctx.JSON(http.StatusCreated, mapper.PaymentToResponse(item))
}

func (c *PaymentController) GetPayment(ctx echo.Context) error {
	req, err := types.NewGetPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.paymentService.GetPayment(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return c.writeNotFound(ctx, req.ID)
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get payment failed")
		return c.writeInternalError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, mapper.PaymentToResponse(item))
}

func (c *PaymentController) ListPayments(ctx echo.Context) error {
	req, err := types.NewListPaymentsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.paymentService.ListPayments(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List payments failed")
		return c.writeInternalError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, mapper.PaymentsToResponse(items))
}

func (c *PaymentController) UpdatePaymentStatus(ctx echo.Context) error {
	req, err := types.NewUpdatePaymentStatusRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.paymentService.UpdatePaymentStatus(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			return c.writeNotFound(ctx, req.ID)
		case errors.Is(err, service.ErrInvalidStatus):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Update payment status failed")
			return c.writeInternalError(ctx, err)
		}
	}

	return ctx.JSON(http.StatusOK, mapper.PaymentToResponse(item))
}

func (c *PaymentController) DeletePayment(ctx echo.Context) error {
	req, err := types.NewDeletePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.paymentService.DeletePayment(ctx.Request().Context(), req.ID); err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return c.writeNotFound(ctx, req.ID)
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Delete payment failed")
		return c.writeInternalError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *PaymentController) writeNotFound(ctx echo.Context, id uint64) error {
	return c.writeError(ctx, http.StatusNotFound, fmt.Sprintf("Payment with ID %d not found", id))
}

func (c *PaymentController) writeInternalError(ctx echo.Context, err error) error {
	return c.writeError(ctx, http.StatusInternalServerError, "Internal server error: "+err.Error())
}

func (c *PaymentController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{
		Status:    statusCode,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
