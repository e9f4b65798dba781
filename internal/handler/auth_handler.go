package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hiring-management-api/internal/auth"
	"hiring-management-api/internal/middleware"
	"hiring-management-api/internal/store"
)

const refreshTokenTTL = 7 * 24 * time.Hour

// InitiateLogin hands back the upstream OAuth redirect URL. The browser
// returns from the provider with user_id on the query string and posts it
// to /auth/callback.
func (h *Handler) InitiateLogin(c *gin.Context) {
	redirect, err := h.backend.InitiateLogin(c.Request.Context())
	if err != nil {
		upstreamFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect_url": redirect})
}

func (h *Handler) Callback(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "user_id is required")
		return
	}

	u, err := h.store.UserByID(c.Request.Context(), req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusUnauthorized, "unknown user")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	tok, err := auth.MakeToken(u.ID, u.Name, h.secret)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	rawRefresh, tokenHash, err := auth.GenerateRefreshToken()
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	if _, err := h.store.CreateRefreshToken(c.Request.Context(), u.ID, tokenHash, time.Now().Add(refreshTokenTTL)); err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	h.setRefreshCookie(c, rawRefresh)
	c.JSON(http.StatusOK, gin.H{
		"user_id": u.ID,
		"name":    u.Name,
		"token":   tok,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	raw, err := c.Cookie("refresh_token")
	if err != nil || raw == "" {
		fail(c, http.StatusUnauthorized, "no refresh token")
		return
	}

	rt, err := h.store.GetRefreshTokenByHash(c.Request.Context(), auth.HashRefreshToken(raw))
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		fail(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	u, err := h.store.UserByID(c.Request.Context(), rt.UserID)
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	newRaw, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	newID := uuid.New().String()
	if err := h.store.RotateRefreshToken(c.Request.Context(), rt.ID, newID, rt.UserID, newHash, time.Now().Add(refreshTokenTTL)); err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	tok, err := auth.MakeToken(u.ID, u.Name, h.secret)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	h.setRefreshCookie(c, newRaw)
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// Logout is the explicit session teardown: refresh tokens are revoked and
// the user's scheduling sessions are cleared.
func (h *Handler) Logout(c *gin.Context) {
	uid := middleware.UserID(c)

	if err := h.store.RevokeAllRefreshTokens(c.Request.Context(), uid); err != nil {
		h.log.Error("revoking refresh tokens failed", zap.String("user_id", uid), zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.store.DeleteSessionsForUser(c.Request.Context(), uid); err != nil {
		h.log.Error("clearing scheduling sessions failed", zap.String("user_id", uid), zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.SetCookie("refresh_token", "", -1, "/auth", "", false, true)
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

func (h *Handler) setRefreshCookie(c *gin.Context, raw string) {
	c.SetCookie("refresh_token", raw, int(refreshTokenTTL.Seconds()), "/auth", "", false, true)
}
