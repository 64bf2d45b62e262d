package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
)

const (
	RoleAdmin  = "admin"
	subjectKey = "subject"
)

var (
	ErrMissingToken = errors.New("authorization header is missing or malformed")
	ErrNotAdmin     = errors.New("token does not carry the admin role")
	ErrAuthDisabled = errors.New("jwt secret not configured")
)

// AdminAuth 校验 HS256 Bearer token，要求 role=admin
func AdminAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	var opts []jwt.ParserOption
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return func(c *gin.Context) {
		claims, err := verifyToken(c.GetHeader("Authorization"), secret, opts...)
		if err != nil {
			utils.Logger.Warn("admin authentication failed",
				zap.String("request_id", GetRequestID(c)),
				zap.String("ip", c.ClientIP()),
				zap.Error(err))

			status := http.StatusUnauthorized
			message := "未授权，访问令牌无效或已过期"
			if errors.Is(err, ErrAuthDisabled) {
				status = http.StatusServiceUnavailable
				message = "管理接口未启用"
			}
			c.AbortWithStatusJSON(status, model.ErrorResponse{
				Success: false,
				Message: message,
			})
			return
		}

		sub, _ := claims.GetSubject()
		c.Set(subjectKey, sub)
		c.Next()
	}
}

func verifyToken(header string, secret []byte, opts ...jwt.ParserOption) (jwt.MapClaims, error) {
	if len(secret) == 0 {
		return nil, ErrAuthDisabled
	}

	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)
	if !ok || tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if role, _ := claims["role"].(string); role != RoleAdmin {
		return nil, ErrNotAdmin
	}
	return claims, nil
}

// GetSubject 管理员 token 的 sub
func GetSubject(c *gin.Context) string {
	return c.GetString(subjectKey)
}
