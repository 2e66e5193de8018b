package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type accountRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
}

func (s *Server) handleCreateAccount(c *gin.Context) {
	var req accountRequest
	if err := bind(c, &req); err != nil {
		s.abort(c, err)
		return
	}
	if err := s.accounts.CreateAccount(c.Request.Context(), req.Username, req.Password, req.Email); err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": req.Username})
}

func (s *Server) handleVerifyAccount(c *gin.Context) {
	var req accountRequest
	if err := bind(c, &req); err != nil {
		s.abort(c, err)
		return
	}
	ok, err := s.accounts.VerifyAccount(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": ok})
}
