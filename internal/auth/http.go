package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/abduss/uploader/internal/response"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts account endpoints under /auth.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group := router.Group("/auth")
	group.POST("/register", handler.register)
	group.POST("/login", handler.login)
}

type httpHandler struct {
	service *Service
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionResponse struct {
	Account   accountResponse `json:"account"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

func toSessionResponse(s Session) sessionResponse {
	return sessionResponse{
		Account: accountResponse{
			ID:        s.Account.ID,
			Email:     s.Account.Email,
			CreatedAt: s.Account.CreatedAt.UTC(),
		},
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt.UTC(),
	}
}

func (h *httpHandler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid registration payload")
		return
	}

	session, err := h.service.Register(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		response.Created(c, "Account created", toSessionResponse(session))
	case errors.Is(err, ErrEmailTaken):
		response.Error(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusBadRequest, "Invalid credentials")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to register account")
	}
}

func (h *httpHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid login payload")
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		response.OK(c, "Login successful", toSessionResponse(session))
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid credentials")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to authenticate")
	}
}
