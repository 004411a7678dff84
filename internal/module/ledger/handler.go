package ledger

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scizor/server/internal/shared/response"
)

// Handler handles ledger HTTP requests.
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new ledger handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public ledger routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("/:user_id/balance", h.GetBalance)
	}
}

// RegisterAdminRoutes registers routes that require admin authentication.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.PUT("/:user_id/balance", h.SetBalance)
	}
}

// CreateUser godoc
// @Summary Register a user
// @Description Creates a ledger entry for the user with the initial operation grant
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User to register"
// @Success 201 {object} response.Envelope{data=BalanceResponse}
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	entry, err := h.service.CreateUser(c.Request.Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			response.Fail(c, http.StatusConflict, "user_exists", "user already exists")
		case errors.Is(err, ErrInvalidUserID):
			response.BadRequest(c, "invalid request")
		default:
			response.Classified(c, err)
		}
		return
	}

	response.Created(c, entry.ToBalanceResponse())
}

// GetBalance godoc
// @Summary Get a user's balance
// @Description Returns the number of paid operations the user may still run
// @Tags users
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} response.Envelope{data=BalanceResponse}
// @Failure 404 {object} response.Envelope
// @Router /users/{user_id}/balance [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID := c.Param("user_id")

	balance, err := h.service.GetBalance(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, ErrInvalidUserID):
			response.BadRequest(c, "invalid request")
		default:
			response.Classified(c, err)
		}
		return
	}

	response.OK(c, &BalanceResponse{UserID: userID, Balance: balance})
}

// SetBalance godoc
// @Summary Overwrite a user's balance
// @Description Sets the user's balance to an exact value, bypassing spend checks
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Param request body SetBalanceRequest true "New balance"
// @Success 200 {object} response.Envelope{data=BalanceResponse}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{user_id}/balance [put]
func (h *Handler) SetBalance(c *gin.Context) {
	userID := c.Param("user_id")

	var req SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	if err := h.service.SetBalance(c.Request.Context(), userID, *req.Balance); err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, ErrInvalidUserID), errors.Is(err, ErrNegativeBalance):
			response.BadRequest(c, "invalid request")
		default:
			response.Classified(c, err)
		}
		return
	}

	response.OK(c, &BalanceResponse{UserID: userID, Balance: *req.Balance})
}
