package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
)

// AuthAPI exposes the identity provider.
type AuthAPI struct {
	service userports.Service
}

// NewAuthAPI wires dependencies.
func NewAuthAPI(service userports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /v1/auth/register
// Create a buyer or seller account
func (api *AuthAPI) Register(c *gin.Context) {
	var payload userhttpmapper.RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(user))
}

// Post /v1/auth/login
// Exchange credentials for a session token
func (api *AuthAPI) Login(c *gin.Context) {
	var payload userhttpmapper.LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	session, user, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromSession(session, user))
}

// Post /v1/auth/logout
// Revoke the caller's session token
func (api *AuthAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
