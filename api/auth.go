package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

var errMissingToken = errors.New("missing bearer token")

// SupabaseClaims is the subset of a Supabase access token the submission
// pipeline records.
type SupabaseClaims struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	SessionID   string `json:"session_id"`
	IsAnonymous bool   `json:"is_anonymous"`
	jwt.StandardClaims
}

func parseSupabaseJWT(jwtStr string, decodeToken string) (*SupabaseClaims, error) {
	if decodeToken == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}

	claims := &SupabaseClaims{}
	token, err := jwt.ParseWithClaims(jwtStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(decodeToken), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", fmt.Errorf("malformed authorization header")
	}
	return parts[1], nil
}

// submitter resolves the optional Supabase user behind a request. When
// RequireAuth is off a missing token yields nil claims; a present but
// invalid token is always rejected.
func (m ApiHandler) submitter(c *gin.Context) (*SupabaseClaims, bool) {
	token, err := bearerToken(c)
	if errors.Is(err, errMissingToken) && !m.RequireAuth {
		return nil, true
	}
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusUnauthorized)
		return nil, false
	}

	claims, err := parseSupabaseJWT(token, m.JwtDecodeToken)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}
