package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"superstore/internal/domain"
)

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	Field      string `json:"field,omitempty"`
	ProductID  int64  `json:"productId,omitempty"`
}

func errorStatus(err error) (int, errorResponse) {
	var (
		validation *domain.ValidationError
		stock      *domain.InsufficientStockError
		storage    *domain.StorageUnavailableError
		integrity  *domain.IntegrityError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, errorResponse{Code: "InvalidInput", Message: err.Error(), Field: validation.Field}
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest, errorResponse{Code: "EmptyCart", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Code: "Unauthorized", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Code: "Forbidden", Message: err.Error()}
	case errors.As(err, &stock):
		return http.StatusConflict, errorResponse{Code: "InsufficientStock", Message: err.Error(), ProductID: stock.ProductID}
	case errors.As(err, &integrity):
		return http.StatusConflict, errorResponse{Code: "IntegrityViolation", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Code: "ResourceNotFound", Message: err.Error()}
	case errors.As(err, &storage):
		return http.StatusServiceUnavailable, errorResponse{Code: "StorageUnavailable", Message: "storage unavailable"}
	default:
		return http.StatusInternalServerError, errorResponse{Code: "InternalError", Message: "internal error"}
	}
}

func writeError(c *gin.Context, err error) {
	status, body := errorStatus(err)
	body.StatusCode = status
	_ = c.Error(err)
	c.JSON(status, body)
}
