package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rmoretti/auditrail/internal/core/model"
)

type accountRequest struct {
	Email      string                   `json:"email" binding:"required,email"`
	FirstName  string                   `json:"first_name" binding:"required"`
	MiddleName string                   `json:"middle_name"`
	LastName   string                   `json:"last_name" binding:"required"`
	Addresses  map[string]model.Address `json:"addresses"`
	Contacts   map[string]string        `json:"contacts"`
	Password   string                   `json:"password" binding:"required,min=4"`
	Roles      []string                 `json:"roles"`
}

func (s *Server) createAccount(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	resp, err := s.accounts.CreateAccount(c.Request.Context(), model.CreateAccountArgs{
		Email:      req.Email,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Addresses:  req.Addresses,
		Contacts:   req.Contacts,
		Password:   req.Password,
		Roles:      req.Roles,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.Account)
}

type updateAccountRequest struct {
	Email      string                   `json:"email"`
	FirstName  string                   `json:"first_name"`
	MiddleName string                   `json:"middle_name"`
	LastName   string                   `json:"last_name"`
	Addresses  map[string]model.Address `json:"addresses"`
	Contacts   map[string]string        `json:"contacts"`
}

func (s *Server) updateAccount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid account id"})
		return
	}

	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	resp, err := s.accounts.UpdateAccount(c.Request.Context(), model.UpdateAccountArgs{
		ID:         id,
		Email:      req.Email,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Addresses:  req.Addresses,
		Contacts:   req.Contacts,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Account)
}

func (s *Server) getAccount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid account id"})
		return
	}
	account, err := s.accounts.GetAccount(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) currentAccount(c *gin.Context) {
	account, err := s.accounts.CurrentAccount(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) listAccounts(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	resp, err := s.accounts.ListAccounts(c.Request.Context(), model.ListAccountsArgs{Page: page})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Accounts)
}

func (s *Server) deleteAccount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid account id"})
		return
	}
	if err := s.accounts.DeleteAccountByID(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteAccountByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email query parameter is required"})
		return
	}
	if err := s.accounts.DeleteAccountByEmail(c.Request.Context(), email); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
