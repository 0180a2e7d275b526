package response

import (
	"errors"
	"net/http"
	"strings"

	apperrors "secondhand/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ErrorInfo is the body of every non-2xx reply. Successful replies carry the
// resource itself with no envelope, which is what marketplace clients expect.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, ErrorInfo{
			Code:    "VALIDATION_ERROR",
			Message: ValidationMessage(validationErr),
		})
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, ErrorInfo{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return c.JSON(httpErr.Code, ErrorInfo{
			Code:    "BAD_REQUEST",
			Message: http.StatusText(httpErr.Code),
		})
	}

	return c.JSON(http.StatusInternalServerError, ErrorInfo{
		Code:    "INTERNAL_ERROR",
		Message: "An unexpected error occurred",
	})
}

// ValidationMessage turns the first failed rule into a readable sentence.
func ValidationMessage(validationErr validator.ValidationErrors) string {
	for _, err := range validationErr {
		field := strings.ToLower(err.Field())
		param := err.Param()

		switch err.Tag() {
		case "required":
			return field + " is required"
		case "min":
			return field + " must be at least " + param
		case "max":
			return field + " must be at most " + param
		case "gte":
			return field + " must be greater than or equal to " + param
		case "oneof":
			return field + " must be one of: " + param
		default:
			return field + " is invalid"
		}
	}
	return "Invalid input data"
}
