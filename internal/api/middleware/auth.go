package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/jwt"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// TokenBlacklist 已登出 token 的查询接口，由 Redis 客户端实现
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// UserLoader 按 ID 读取用户，角色与启用状态以数据库为准
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token；
// blacklist 为 nil 时跳过黑名单检查
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenBlacklist, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			msg := "Token 无效"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token 已过期"
			}
			response.Unauthorized(c, 10002, msg)
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			// Redis 出错时降级放行
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "登录状态已失效，请重新登录")
				c.Abort()
				return
			}
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Unauthorized(c, 10002, "用户不存在")
			c.Abort()
			return
		}
		if !user.Active {
			response.Forbidden(c, 11002, "账号已停用")
			c.Abort()
			return
		}

		// 将用户信息注入上下文
		c.Set("user_id", user.UserID)
		c.Set("role", string(user.Role))
		c.Set("claims", claims)

		c.Next()
	}
}

// RequireCapability 能力鉴权中间件
// 检查当前用户的角色是否具备指定能力
func RequireCapability(capability model.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		if !model.Role(userRole).Can(capability) {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}

		c.Next()
	}
}
