package handler

import (
	"errors"
	"net/http"

	"github.com/mrnobugz/PosApp-Api/internal/apierror"
	"github.com/mrnobugz/PosApp-Api/internal/dto"
	"github.com/mrnobugz/PosApp-Api/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	token, user, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, Username: user.Username, Role: user.Role})
}
