package auth

import (
	"errors"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
	"github.com/tripamigo/travel-match-backend/internal/users"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxUserDBID    = "user_db_id"
)

// WithUser resolves the caller's identity to an internal user id and stores
// it in the request context. A Bearer token is verified against Firebase
// when authClient is non-nil; otherwise the X-User-Id header carries the
// external UID, which keeps local development and tests token-free.
//
// Identity resolution never creates accounts. An external UID with no users
// row is a 404: signup belongs to the profile service.
func WithUser(authClient *fbauth.Client, userRepo *users.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuid, err := externalUID(c, authClient)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
			c.Abort()
			return
		}

		uid, err := userRepo.Resolve(c.Request.Context(), fuid)
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "resolve user: " + err.Error()})
			c.Abort()
			return
		}

		c.Set(CtxFirebaseUID, fuid)
		c.Set(CtxUserDBID, uid)
		c.Next()
	}
}

func externalUID(c *gin.Context, authClient *fbauth.Client) (string, error) {
	token := extractToken(c)

	if authClient != nil {
		if token == "" {
			return "", errors.New("missing authorization token")
		}
		decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			return "", errors.New("invalid token")
		}
		return decoded.UID, nil
	}

	fuid := strings.TrimSpace(c.GetHeader("X-User-Id"))
	if fuid == "" {
		return "", errors.New("missing X-User-Id header")
	}
	return fuid, nil
}

// UserDBID returns the internal user id set by WithUser.
func UserDBID(c *gin.Context) string {
	v := c.GetString(CtxUserDBID)
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return v
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
