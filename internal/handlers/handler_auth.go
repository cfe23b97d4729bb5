package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/gin-gonic/gin"
	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	portssvc "github.com/lendtrack/lendtrack_backend/internal/core/ports/services"
	"github.com/lendtrack/lendtrack_backend/internal/dto"
	"github.com/lendtrack/lendtrack_backend/internal/middleware"
	"github.com/lendtrack/lendtrack_backend/internal/platform/config"
	"github.com/lendtrack/lendtrack_backend/internal/utils"
)

// oauthStateCookie holds the CSRF token between the redirect to Google and
// the callback.
const oauthStateCookie = "oauth_state"

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	googleOAuth  portssvc.GoogleOAuthSvcFacade
	cfg          *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(services *portssvc.ServiceContainer, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:  services.User,
		tokenService: services.Token,
		googleOAuth:  services.GoogleOAuth,
		cfg:          cfg,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services, cfg)

	// Credential endpoints get a per-IP rate limit: 5 requests per minute.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)
	limit := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/register", limit, h.Register)
		auth.POST("/login", limit, h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.POST("/google", limit, h.GoogleSignIn)
		auth.GET("/google/login", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)
	}
}

// issueTokens generates the access/refresh token pair for a user, persists
// the refresh token hash, and sets the refresh cookie. Returns the login body.
func (h *AuthHandler) issueTokens(c *gin.Context, user *domain.User) (*dto.LoginResponse, error) {
	ctx := c.Request.Context()

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := h.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken), refreshExpiry); err != nil {
		return nil, err
	}

	h.setRefreshCookie(c, user.UserID, refreshToken, refreshExpiry)

	return &dto.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        dto.ToUserResponse(user),
	}, nil
}

// setRefreshCookie writes the http-only refresh cookie. The value carries the
// user ID alongside the raw token so the refresh endpoint can look up the
// stored hash without a session.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, userID, refreshToken string, expiry time.Time) {
	maxAge := int(time.Until(expiry).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.cfg.RefreshTokenCookieName,
		userID+"."+refreshToken,
		maxAge,
		h.cfg.RefreshTokenCookiePath,
		"",
		h.cfg.IsProduction,
		true,
	)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}

// splitRefreshCookie parses a "userID.token" cookie value.
func splitRefreshCookie(value string) (userID, token string, ok bool) {
	userID, token, ok = strings.Cut(value, ".")
	if !ok || userID == "" || token == "" {
		return "", "", false
	}
	return userID, token, true
}

// Register godoc
// @Summary Register new user
// @Description Creates a new account with email and password.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterUserRequest true "Registration info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login godoc
// @Summary User login
// @Description Authenticates with email and password. Returns an access token
// @Description in the body and a refresh token in an http-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Invalid email or password")
		return
	}

	resp, err := h.issueTokens(c, user)
	if err != nil {
		respondError(c, err, "Failed to generate tokens")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchanges the refresh cookie for a new access token and a
// @Description rotated refresh cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	cookie, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Refresh token missing"})
		return
	}
	userID, rawToken, ok := splitRefreshCookie(cookie)
	if !ok {
		h.clearRefreshCookie(c)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Malformed refresh token"})
		return
	}

	user, err := h.tokenService.ValidateRefreshToken(c.Request.Context(), userID, rawToken)
	if err != nil {
		h.clearRefreshCookie(c)
		respondError(c, err, "Invalid refresh token")
		return
	}

	resp, err := h.issueTokens(c, user)
	if err != nil {
		respondError(c, err, "Failed to generate tokens")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out
// @Description Clears the refresh cookie and invalidates the stored token.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(h.cfg.RefreshTokenCookieName); err == nil {
		if userID, _, ok := splitRefreshCookie(cookie); ok {
			if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
				logger := middleware.GetLoggerFromCtx(c.Request.Context())
				logger.Warn("Failed to clear stored refresh token", slog.String("error", err.Error()))
			}
		}
	}

	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// GoogleSignIn godoc
// @Summary Sign in with a Google ID token
// @Description Validates a Google ID token obtained by the client and signs
// @Description the user in, creating an account on first use.
// @Tags auth
// @Accept json
// @Produce json
// @Param token body dto.GoogleSignInRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req dto.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	payload, err := h.googleOAuth.ValidateGoogleIDToken(ctx, req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	resp, err := h.signInFromGoogleClaims(c, payload.Claims)
	if err != nil {
		respondError(c, err, "Failed to sign in with Google")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GoogleLogin godoc
// @Summary Start the Google OAuth redirect flow
// @Tags auth
// @Success 307
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := h.googleOAuth.GenerateStateString(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to start Google sign-in")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int((10 * time.Minute).Seconds()), "/", "", h.cfg.IsProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.GetGoogleLoginURL(c.Request.Context(), state))
}

// GoogleCallback godoc
// @Summary Google OAuth redirect callback
// @Description Completes the redirect flow and sends the user back to the
// @Description frontend with a fresh session.
// @Tags auth
// @Success 303
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code missing"})
		return
	}

	oauth2Token, err := h.googleOAuth.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authorization code"})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token missing from Google token response")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve ID token from Google"})
		return
	}

	payload, err := h.googleOAuth.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Error("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	resp, err := h.signInFromGoogleClaims(c, payload.Claims)
	if err != nil {
		respondError(c, err, "Failed to sign in with Google")
		return
	}

	// The refresh cookie is already set; hand the access token to the
	// frontend via the redirect fragment so it never hits server logs.
	redirect := h.cfg.FrontendBaseURL + "/auth/callback#access_token=" + url.QueryEscape(resp.AccessToken)
	c.Redirect(http.StatusSeeOther, redirect)
}

// signInFromGoogleClaims resolves validated ID token claims to a local user
// and issues a token pair.
func (h *AuthHandler) signInFromGoogleClaims(c *gin.Context, claims map[string]any) (*dto.LoginResponse, error) {
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	emailVerified, _ := claims["email_verified"].(bool)

	user, err := h.userService.FindOrCreateGoogleUser(c.Request.Context(), domain.GoogleUserInfo{
		Email:         email,
		Name:          name,
		VerifiedEmail: emailVerified,
	})
	if err != nil {
		return nil, err
	}

	return h.issueTokens(c, user)
}
