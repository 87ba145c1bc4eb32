package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/service"
)

type consumerRegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	ContactNo       string `json:"contactNo"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type farmerRegisterRequest struct {
	KisanID         string `json:"kisanId"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ContactNo       string `json:"contactNo"`
	Pincode         string `json:"pincode"`
	VillageName     string `json:"villageName"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	KisanID  string `json:"kisanId"`
	Password string `json:"password"`
}

func (h *Handler) RegisterConsumer(c *gin.Context) {
	var req consumerRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	u, err := h.svc.Accounts.RegisterConsumer(c.Request.Context(), service.ConsumerRegistration(req))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *Handler) RegisterFarmer(c *gin.Context) {
	var req farmerRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	u, err := h.svc.Accounts.RegisterFarmer(c.Request.Context(), service.FarmerRegistration(req))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *Handler) LoginConsumer(c *gin.Context) {
	h.login(c, func(req loginRequest) (domain.User, error) {
		return h.svc.Accounts.LoginConsumer(c.Request.Context(), req.Email, req.Password)
	})
}

func (h *Handler) LoginFarmer(c *gin.Context) {
	h.login(c, func(req loginRequest) (domain.User, error) {
		return h.svc.Accounts.LoginFarmer(c.Request.Context(), req.KisanID, req.Password)
	})
}

func (h *Handler) LoginAdmin(c *gin.Context) {
	h.login(c, func(req loginRequest) (domain.User, error) {
		return h.svc.Accounts.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	})
}

func (h *Handler) login(c *gin.Context, authenticate func(loginRequest) (domain.User, error)) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	u, err := authenticate(req)
	if errors.Is(err, domain.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	token, err := h.tokens.Issue(u)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

func (h *Handler) Profile(c *gin.Context) {
	u, err := h.svc.Accounts.Profile(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
