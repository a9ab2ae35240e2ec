package handlers

import (
	"net/http"
	"time"

	"boba-pos/internal/auth"
	"boba-pos/internal/database"
	"boba-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves the Google OAuth flow. The session store is injected so
// its lifecycle (create on login, TTL expiry, invalidate on logout) lives in
// one place instead of a package-level map.
type AuthHandler struct {
	Sessions    *auth.SessionStore
	OAuth       *auth.GoogleOAuth
	StaffDomain string
}

// --- GET /api/auth/google/url ---
func (h *AuthHandler) GoogleAuthURL(c *gin.Context) {
	authURL, state, err := h.OAuth.AuthURL(c.Query("state"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": authURL, "state": state})
}

// --- POST /api/auth/google/callback ---
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var body struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "authorization code is required"})
		return
	}

	accessToken, err := h.OAuth.ExchangeCode(body.Code)
	if err != nil {
		writeError(c, err)
		return
	}

	info, err := h.OAuth.UserInfo(accessToken)
	if err != nil {
		writeError(c, err)
		return
	}

	user, err := h.findOrCreateUser(info)
	if err != nil {
		writeError(c, err)
		return
	}

	sess := h.Sessions.Create(user.ID, user.Email, user.Role)
	c.JSON(http.StatusOK, gin.H{
		"token": sess.Token,
		"user": gin.H{
			"id":      user.ID,
			"email":   user.Email,
			"name":    user.Name,
			"picture": user.Picture,
			"role":    user.Role,
		},
	})
}

// findOrCreateUser upserts the account for a Google profile. Existing users
// are matched by Google id first, then by email.
func (h *AuthHandler) findOrCreateUser(info *auth.GoogleUser) (*models.User, error) {
	now := time.Now().UTC()

	var user models.User
	err := database.DB.Where("google_id = ?", info.ID).First(&user).Error
	if err != nil {
		err = database.DB.Where("email = ?", info.Email).First(&user).Error
	}

	if err == nil {
		updates := map[string]interface{}{
			"google_id":  info.ID,
			"last_login": now,
		}
		if info.Name != "" {
			updates["name"] = info.Name
		}
		if info.Picture != "" {
			updates["picture"] = info.Picture
		}
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	user = models.User{
		Email:     info.Email,
		Name:      info.Name,
		GoogleID:  info.ID,
		Picture:   info.Picture,
		Role:      auth.DefaultRoleForEmail(info.Email, h.StaffDomain),
		IsActive:  true,
		LastLogin: &now,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --- GET /api/auth/me ---
func (h *AuthHandler) Me(c *gin.Context) {
	token, err := auth.BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": err.Error()})
		return
	}

	sess, ok := h.Sessions.Get(token)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid or expired session"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, sess.UserID).Error; err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid or expired session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"picture": user.Picture,
		"role":    user.Role,
	})
}

// --- POST /api/auth/logout ---
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := auth.BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": err.Error()})
		return
	}
	h.Sessions.Invalidate(token)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
