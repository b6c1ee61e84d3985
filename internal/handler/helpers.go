package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/sime65123/gym-project/internal/apierror"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseIDParam parses the :id path segment as a UUID. Writes the 400 response
// itself on failure.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service sentinel errors to HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	// State conflicts (not-pending reservation, over-payment) surface as 400
	// so existing front-end error handling keeps working.
	case errors.Is(err, service.ErrStateConflict):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
