package middleware

import (
    "errors"
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
)

const ClaimsKey = "claims"

// Claims are the fields read from the auth provider's session token.
type Claims struct {
    Email string `json:"email,omitempty"`
    Role  string `json:"role,omitempty"`
    jwt.RegisteredClaims
}

// ParseToken validates an HS256 token signed with key.
func ParseToken(tokenStr string, key []byte) (*Claims, error) {
    claims := &Claims{}
    token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
        return key, nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil { return nil, err }
    if !token.Valid { return nil, errors.New("token is not valid") }
    return claims, nil
}

// JWTAuth validates a Bearer token in the Authorization header or the "token"
// cookie. An empty secret turns the check off.
func JWTAuth(secret string) gin.HandlerFunc {
    key := []byte(secret)
    return func(c *gin.Context) {
        if secret == "" {
            c.Next()
            return
        }
        var tokenStr string
        if authHeader := c.GetHeader("Authorization"); authHeader != "" {
            parts := strings.SplitN(authHeader, " ", 2)
            if len(parts) != 2 || parts[0] != "Bearer" {
                c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
                return
            }
            tokenStr = parts[1]
        } else if cookie, err := c.Cookie("token"); err == nil {
            tokenStr = cookie
        } else {
            c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required (header or cookie)"})
            return
        }

        claims, err := ParseToken(tokenStr, key)
        if err != nil {
            c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
            return
        }
        c.Set(ClaimsKey, claims)
        c.Next()
    }
}
