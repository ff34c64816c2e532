package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// login verifies the credentials, issues an access token and records one
// login-audit row. The audit write is part of the success path: a login
// that cannot be audited still succeeds, but is logged loudly.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	credentials, err := s.accounts.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := GenerateToken(credentials.Email, credentials.Roles, s.tokenExpiresIn, s.tokenSecretKey)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := s.audits.Audit(c.Request.Context(), credentials.Email); err != nil {
		log.WithError(err).WithField("email", credentials.Email).Error("error auditing successful login")
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenExpiresIn.Seconds()),
	})
}
