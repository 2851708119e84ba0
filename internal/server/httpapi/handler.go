package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/seniko/internal/server/metrics"
	"github.com/dmitrijs2005/seniko/internal/server/services"
	"github.com/gin-gonic/gin"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type meResponse struct {
	UserID string `json:"userId"`
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.RecordAuthAttempt("login", metrics.OutcomeInvalid)
		writeMalformed(c)
		return
	}

	token, err := s.users.Login(c.Request.Context(), req)
	if err != nil {
		s.metrics.RecordAuthAttempt("login", outcomeOf(err))
		s.writeError(c, "login", err)
		return
	}

	s.metrics.RecordAuthAttempt("login", metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.RecordAuthAttempt("register", metrics.OutcomeInvalid)
		writeMalformed(c)
		return
	}

	u, err := s.users.Register(c.Request.Context(), req)
	if err != nil {
		s.metrics.RecordAuthAttempt("register", outcomeOf(err))
		s.writeError(c, "register", err)
		return
	}

	s.metrics.RecordAuthAttempt("register", metrics.OutcomeSuccess)
	c.JSON(http.StatusCreated, userResponse{ID: u.ID, Username: u.Username, Email: u.Email})
}

func (s *HTTPServer) me(c *gin.Context) {
	c.JSON(http.StatusOK, meResponse{UserID: c.GetString(userIDKey)})
}
