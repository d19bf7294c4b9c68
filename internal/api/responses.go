package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/logger"
)

type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"something went wrong"`
}

type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DataResponse wraps successful payloads.
type DataResponse struct {
	Success bool `json:"success" example:"true"`
	Data    any  `json:"data"`
}

// ListResponse wraps collections together with their size.
type ListResponse struct {
	Success bool `json:"success" example:"true"`
	Count   int  `json:"count" example:"1"`
	Data    any  `json:"data"`
}

func OK(c *gin.Context, status int, data any) {
	c.JSON(status, DataResponse{Success: true, Data: data})
}

func List[T any](c *gin.Context, items []T) {
	c.JSON(http.StatusOK, ListResponse{Success: true, Count: len(items), Data: items})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Success: false, Message: message})
}

// RespondError writes err using its apperr kind. Anything else is logged and
// reported as a 500.
func RespondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
		Fail(c, status, "Internal server error")
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		Fail(c, status, appErr.Message)
		return
	}
	Fail(c, status, err.Error())
}

// RespondBindError turns a ShouldBind failure into a 400 with readable field messages.
func RespondBindError(c *gin.Context, err error) {
	Fail(c, http.StatusBadRequest, ValidationMessage(err))
}

func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// IntParam reads a positive integer path parameter, writing a 400 when it is malformed.
func IntParam(c *gin.Context, name, label string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		Fail(c, http.StatusBadRequest, "Invalid "+label)
		return 0, false
	}
	return id, true
}

// OptionalIntQuery reads an optional integer query parameter. A nil result
// means the parameter was absent.
func OptionalIntQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.BadRequest("Invalid %s", name)
	}
	return &v, nil
}
