package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fleetdesk/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ownerIDKey    = "owner_id"
	requestCtxKey = "request_ctx"
)

var errTokenClaims = errors.New("token tanpa owner_id")

// IssueToken signs an HS256 session token for the owner.
func IssueToken(secret []byte, ttl time.Duration, owner domain.RequestContext, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"owner_id": owner.OwnerID,
		"email":    owner.Email,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies the signature and expiry and returns the owner it names.
func ParseToken(secret []byte, raw string) (domain.RequestContext, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return domain.RequestContext{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.RequestContext{}, errTokenClaims
	}
	ownerID, _ := claims["owner_id"].(string)
	if strings.TrimSpace(ownerID) == "" {
		return domain.RequestContext{}, errTokenClaims
	}
	email, _ := claims["email"].(string)
	return domain.RequestContext{OwnerID: ownerID, Email: email}, nil
}

// OwnerAuth requires a Bearer token and stores the owner on the context.
func OwnerAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "token wajib diisi",
				"request_id": GetRequestID(c),
			})
			return
		}

		rc, err := ParseToken(secret, strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "token tidak valid",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Set(ownerIDKey, rc.OwnerID)
		c.Set(requestCtxKey, rc)
		c.Next()
	}
}

// Owner returns the authenticated owner, if OwnerAuth ran.
func Owner(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(requestCtxKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}
