package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockService implements ServiceInterface for handler tests.
type MockService struct {
	entries map[string]int64
	err     error
}

func NewMockService() *MockService {
	return &MockService{entries: make(map[string]int64)}
}

func (m *MockService) Exists(_ context.Context, userID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.entries[userID]
	return ok, nil
}

func (m *MockService) CreateUser(_ context.Context, userID string) (*Entry, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.entries[userID]; ok {
		return nil, ErrUserExists
	}
	m.entries[userID] = 20
	return &Entry{UserID: userID, Balance: 20}, nil
}

func (m *MockService) GetBalance(_ context.Context, userID string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	balance, ok := m.entries[userID]
	if !ok {
		return 0, ErrUserNotFound
	}
	return balance, nil
}

func (m *MockService) Spend(_ context.Context, userID string, cost int64) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	balance, ok := m.entries[userID]
	if !ok {
		return 0, ErrUserNotFound
	}
	if balance < cost {
		return 0, ErrInsufficientBalance
	}
	m.entries[userID] = balance - cost
	return m.entries[userID], nil
}

func (m *MockService) SetBalance(_ context.Context, userID string, balance int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.entries[userID]; !ok {
		return ErrUserNotFound
	}
	m.entries[userID] = balance
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func setupRouter(svc ServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)
	api := r.Group("")
	h.RegisterRoutes(api)
	admin := r.Group("/admin")
	h.RegisterAdminRoutes(admin)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHandler_CreateUser(t *testing.T) {
	t.Run("Creates user and returns initial balance", func(t *testing.T) {
		r := setupRouter(NewMockService())

		w, env := doRequest(t, r, http.MethodPost, "/users", CreateUserRequest{UserID: "user-1"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Success)

		var data BalanceResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "user-1", data.UserID)
		assert.Equal(t, int64(20), data.Balance)
	})

	t.Run("Duplicate user returns conflict", func(t *testing.T) {
		svc := NewMockService()
		r := setupRouter(svc)

		_, _ = doRequest(t, r, http.MethodPost, "/users", CreateUserRequest{UserID: "user-1"})
		w, env := doRequest(t, r, http.MethodPost, "/users", CreateUserRequest{UserID: "user-1"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "user_exists", env.Error)
		assert.Equal(t, "user already exists", env.Message)
	})

	t.Run("Missing user_id returns bad request", func(t *testing.T) {
		r := setupRouter(NewMockService())

		w, env := doRequest(t, r, http.MethodPost, "/users", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "invalid request", env.Message)
	})
}

func TestHandler_GetBalance(t *testing.T) {
	t.Run("Returns balance", func(t *testing.T) {
		svc := NewMockService()
		svc.entries["user-1"] = 17
		r := setupRouter(svc)

		w, env := doRequest(t, r, http.MethodGet, "/users/user-1/balance", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)

		var data BalanceResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, int64(17), data.Balance)
	})

	t.Run("Unknown user returns not found", func(t *testing.T) {
		r := setupRouter(NewMockService())

		w, env := doRequest(t, r, http.MethodGet, "/users/missing/balance", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "user not found", env.Message)
	})
}

func TestHandler_SetBalance(t *testing.T) {
	t.Run("Overwrites balance", func(t *testing.T) {
		svc := NewMockService()
		svc.entries["user-1"] = 3
		r := setupRouter(svc)

		balance := int64(50)
		w, env := doRequest(t, r, http.MethodPut, "/admin/users/user-1/balance",
			SetBalanceRequest{Balance: &balance})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.Equal(t, int64(50), svc.entries["user-1"])
	})

	t.Run("Allows explicit zero", func(t *testing.T) {
		svc := NewMockService()
		svc.entries["user-1"] = 3
		r := setupRouter(svc)

		balance := int64(0)
		w, _ := doRequest(t, r, http.MethodPut, "/admin/users/user-1/balance",
			SetBalanceRequest{Balance: &balance})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(0), svc.entries["user-1"])
	})

	t.Run("Rejects negative balance", func(t *testing.T) {
		svc := NewMockService()
		svc.entries["user-1"] = 3
		r := setupRouter(svc)

		balance := int64(-10)
		w, env := doRequest(t, r, http.MethodPut, "/admin/users/user-1/balance",
			SetBalanceRequest{Balance: &balance})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, int64(3), svc.entries["user-1"])
	})

	t.Run("Unknown user returns not found", func(t *testing.T) {
		r := setupRouter(NewMockService())

		balance := int64(50)
		w, _ := doRequest(t, r, http.MethodPut, "/admin/users/missing/balance",
			SetBalanceRequest{Balance: &balance})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
