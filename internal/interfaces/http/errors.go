package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// writeError traduce un error de dominio a status y código HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error en petición")
	}
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var short *domain.InsufficientStockError
	var inconsistent *domain.ConsistencyError
	hasShort := errors.As(err, &short)

	switch {
	case errors.Is(err, domain.ErrInvalidAdjustment):
		resp := dto.ErrorResponse{Code: "INVALID_ADJUSTMENT", Message: err.Error()}
		if hasShort {
			resp.Details = insufficientDetails(short)
		}
		return fiber.StatusUnprocessableEntity, resp
	case hasShort:
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente", Details: insufficientDetails(short)}
	case errors.Is(err, domain.ErrProductNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidTransfer):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_TRANSFER", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrTransferNotPending):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "TRANSFER_NOT_PENDING", Message: err.Error()}
	case errors.Is(err, domain.ErrPurchaseNotPending):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "PURCHASE_NOT_PENDING", Message: err.Error()}
	case errors.Is(err, domain.ErrPendingTransfers):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "PENDING_TRANSFERS", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrOperationTimedOut):
		return fiber.StatusGatewayTimeout, dto.ErrorResponse{Code: "TIMEOUT", Message: err.Error()}
	case errors.As(err, &inconsistent):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "CONSISTENCY_VIOLATION", Message: err.Error(), Details: inconsistent}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

func insufficientDetails(e *domain.InsufficientStockError) dto.InsufficientStockDetails {
	return dto.InsufficientStockDetails{
		ProductID:   e.ProductID,
		WarehouseID: e.WarehouseID,
		Available:   e.Available,
		Requested:   e.Requested,
	}
}
