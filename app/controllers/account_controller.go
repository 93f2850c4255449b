package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/vypar/internal/authclient"
	"github.com/shashiranjanraj/vypar/pkg/response"
)

// AccountController serves the caller's own identity.
type AccountController struct{}

func NewAccountController() *AccountController {
	return &AccountController{}
}

// Me echoes the identity the auth middleware resolved for this request.
func (c *AccountController) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := authclient.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	response.Success(w, identity)
}
