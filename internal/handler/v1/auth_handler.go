package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
}

type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.DateOfBirth != nil {
		resp.DateOfBirth = u.DateOfBirth.Format("2006-01-02")
	}
	return resp
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &service.RegisterCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	}
	if req.DateOfBirth != "" {
		dob, err := parseTimestamp(req.DateOfBirth)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid date_of_birth: expected YYYY-MM-DD")
			return
		}
		cmd.DateOfBirth = &dob
	}

	user, pair, err := h.svc.Register(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, gin.H{
		"token": pair,
		"user":  toUserResponse(user),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, pair, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"token": pair,
		"user":  toUserResponse(user),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"token": pair})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.svc.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"user": toUserResponse(user)})
}

type updateProfileRequest struct {
	FullName    *string `json:"full_name"`
	DateOfBirth *string `json:"date_of_birth"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &domain.UpdateProfileCommand{FullName: req.FullName}
	if req.DateOfBirth != nil {
		dob, err := parseTimestamp(*req.DateOfBirth)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid date_of_birth: expected YYYY-MM-DD")
			return
		}
		cmd.DateOfBirth = &dob
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), currentUserID(c), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"user": toUserResponse(user)})
}
