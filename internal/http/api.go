package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"snake-game/internal/domain"
	"snake-game/internal/service"
)

const userContextKey = "currentUser"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	games     service.GameService
	staticDir string
}

func NewHandler(users service.UserService, games service.GameService, staticDir string) *Handler {
	return &Handler{
		users:     users,
		games:     games,
		staticDir: staticDir,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	if h.staticDir != "" {
		router.Static("/static", h.staticDir)
		router.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(h.staticDir, "index.html"))
		})
		router.GET("/game", func(c *gin.Context) {
			c.File(filepath.Join(h.staticDir, "game.html"))
		})
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "Snake Game API is running"})
	})

	users := router.Group("/api/users")
	{
		users.POST("/register", h.register)
		users.POST("/login", h.login)
		users.GET("/me", h.requireAuth, h.me)
	}

	games := router.Group("/api/games")
	{
		games.POST("/session", h.requireAuth, h.createSession)
		games.GET("/history", h.requireAuth, h.history)
		games.GET("/leaderboard", h.leaderboard)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth resolves the bearer token to a user and aborts with 401 on any
// failure. The response never distinguishes why the token was rejected.
func (h *Handler) requireAuth(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		unauthorized(c)
		return
	}

	user, err := h.users.CurrentUser(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			unauthorized(c)
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Set(userContextKey, user)
	c.Next()
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
}

func currentUser(c *gin.Context) *domain.User {
	user, _ := c.MustGet(userContextKey).(*domain.User)
	return user
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type createSessionRequest struct {
	Score           int `json:"score"`
	DurationSeconds int `json:"duration_seconds"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    user.Username,
	})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(currentUser(c)))
}

func (h *Handler) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.games.RecordSession(c.Request.Context(), currentUser(c), req.Score, req.DurationSeconds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessionToResponse(*session))
}

func (h *Handler) history(c *gin.Context) {
	limit, err := limitQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	sessions, err := h.games.History(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]GameSessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = sessionToResponse(sessions[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) leaderboard(c *gin.Context) {
	limit, err := limitQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	entries, err := h.games.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]LeaderboardEntryResponse, len(entries))
	for i := range entries {
		resp[i] = LeaderboardEntryResponse{
			Rank:     entries[i].Rank,
			Username: entries[i].Username,
			Score:    entries[i].Score,
			PlayedAt: entries[i].PlayedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func limitQuery(c *gin.Context) (int, error) {
	raw := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("invalid limit")
	}
	return limit, nil
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
	LastLogin string `json:"last_login"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

type GameSessionResponse struct {
	ID              int64  `json:"id"`
	Score           int    `json:"score"`
	DurationSeconds int    `json:"duration_seconds"`
	PlayedAt        string `json:"played_at"`
	Username        string `json:"username"`
}

type LeaderboardEntryResponse struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	PlayedAt string `json:"played_at"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		LastLogin: user.LastLogin.Format(time.RFC3339),
	}
}

func sessionToResponse(session domain.GameSession) GameSessionResponse {
	return GameSessionResponse{
		ID:              session.ID,
		Score:           session.Score,
		DurationSeconds: session.DurationSeconds,
		PlayedAt:        session.PlayedAt.Format(time.RFC3339),
		Username:        session.Username,
	}
}
