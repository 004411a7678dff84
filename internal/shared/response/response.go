package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/scizor/server/internal/shared/errors"
)

// Envelope is the wire shape shared by every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Fail sends an error envelope with the given status, code and message.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{Success: false, Error: code, Message: message})
}

// BadRequest sends a 400 error envelope.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, string(apperrors.KindInvalidInput), message)
}

// Unauthorized sends a 401 error envelope.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "unauthorized"
	}
	Fail(c, http.StatusUnauthorized, "unauthorized", message)
}

// Classified sends the envelope for an already-classified error. Unclassified
// errors are normalized first, so callers can pass any error.
func Classified(c *gin.Context, err error) {
	e := apperrors.Classify(err)
	if e == nil {
		return
	}
	Fail(c, e.StatusCode(), string(e.Kind), e.Message)
}
