package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/domain/models"
	"github.com/mamadbah2/backoffice/internal/service/appstate"
	"github.com/mamadbah2/backoffice/internal/service/auth"
	"github.com/mamadbah2/backoffice/pkg/clients/backend"
)

const sessionKey = "session"

var errNoSession = models.NewError(models.KindUnauthorized, http.StatusUnauthorized, "Authentication required", nil)

// SessionHandler serves login, logout and the per-session application state.
type SessionHandler struct {
	sessions *auth.SessionManager
	// forwardToken sends the session token to the backend as a bearer token.
	forwardToken bool
	logger       *zap.Logger
}

// NewSessionHandler constructs the session handler.
func NewSessionHandler(sessions *auth.SessionManager, forwardToken bool, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{sessions: sessions, forwardToken: forwardToken, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type menuRequest struct {
	Name string `json:"name"`
}

type selectRequest struct {
	Item string `json:"item" binding:"required"`
}

// Login opens a session and returns its token.
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return
	}

	session, err := h.sessions.Login(req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", zap.String("email", req.Email))
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"token": session.Token, "state": session.State.Snapshot()}, "Logged in")
}

// Logout closes the session named by the Authorization header.
func (h *SessionHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" || h.sessions.ClearSession(token) != nil {
		respondError(c, h.logger, errNoSession)
		return
	}
	respondOK(c, http.StatusOK, nil, "Logged out")
}

// RequireSession rejects requests without a live session token.
func (h *SessionHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		session, ok := h.sessions.GetSession(token)
		if token == "" || !ok {
			respondError(c, h.logger, errNoSession)
			return
		}

		c.Set(sessionKey, session)
		if h.forwardToken {
			c.Request = c.Request.WithContext(backend.WithToken(c.Request.Context(), token))
		}
		c.Next()
	}
}

// State returns the session's application state.
func (h *SessionHandler) State(c *gin.Context) {
	respondOK(c, http.StatusOK, currentSession(c).State.Snapshot(), "")
}

// Menu toggles a dropdown; an empty name closes every menu.
func (h *SessionHandler) Menu(c *gin.Context) {
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return
	}

	var intent appstate.Intent = appstate.OpenMenu{Name: req.Name}
	if req.Name == "" {
		intent = appstate.CloseMenus{}
	}
	h.dispatch(c, intent)
}

// Select activates a sidebar entry.
func (h *SessionHandler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return
	}
	h.dispatch(c, appstate.SelectItem{Item: req.Item})
}

func (h *SessionHandler) dispatch(c *gin.Context, intent appstate.Intent) {
	state, err := currentSession(c).State.Dispatch(intent)
	if err != nil {
		respondError(c, h.logger, models.NewError(models.KindBadRequest, http.StatusBadRequest, err.Error(), err))
		return
	}
	respondOK(c, http.StatusOK, state, "")
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// currentSession is only valid behind RequireSession.
func currentSession(c *gin.Context) *auth.Session {
	return c.MustGet(sessionKey).(*auth.Session)
}
