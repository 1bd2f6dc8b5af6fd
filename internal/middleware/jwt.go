package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"course-market/internal/config"
	"course-market/internal/model"
	"course-market/internal/pkg/database"
)

// JWT 身份解析中间件
// 令牌由外部身份服务签发，主题是稳定的用户ID；每个请求显式解析，
// 处理器只从上下文取身份，不读任何全局会话状态
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveIdentity(c)
		if !ok {
			c.Abort()
			return
		}

		// 将用户信息保存到上下文
		c.Set("userId", user.ID)
		c.Set("currentUser", user)
		c.Next()
	}
}

// JWTIdentity 只校验令牌不查库
// 用户档案同步接口在本地建档之前调用，此时库里还没有这个用户
func JWTIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.GlobalConfig == nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code": 500,
				"msg":  "系统错误，无法验证身份",
			})
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if authHeader == "" || len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "未登录或token已过期",
			})
			c.Abort()
			return
		}

		claims, err := parseToken(parts[1], config.GlobalConfig.JWT.Secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "token无效: " + err.Error(),
			})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Next()
	}
}

// OptionalJWT 可选身份解析
// 公开接口也能感知登录用户（比如课程详情按是否已报名决定课时地址可见性），
// 没有令牌或令牌无效时继续以匿名身份处理
func OptionalJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := parseToken(parts[1], config.GlobalConfig.JWT.Secret)
		if err != nil {
			c.Next()
			return
		}

		var user model.User
		if err := database.DB.First(&user, "id = ?", claims.UserID).Error; err == nil {
			c.Set("userId", user.ID)
			c.Set("currentUser", &user)
		}
		c.Next()
	}
}

func resolveIdentity(c *gin.Context) (*model.User, bool) {
	// 获取JWT配置
	if config.GlobalConfig == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "系统错误，无法验证身份",
		})
		return nil, false
	}
	jwtConfig := config.GlobalConfig.JWT

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": 401,
			"msg":  "未登录或token已过期",
		})
		return nil, false
	}

	// 获取token
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": 401,
			"msg":  "token格式错误",
		})
		return nil, false
	}

	// 解析token
	claims, err := parseToken(parts[1], jwtConfig.Secret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": 401,
			"msg":  "token无效: " + err.Error(),
		})
		return nil, false
	}

	// 检查用户是否存在且未被删除
	var user model.User
	if err := database.DB.Unscoped().First(&user, "id = ?", claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": 401,
			"msg":  "用户不存在或已被删除",
		})
		return nil, false
	}

	if !user.DeletedAt.Time.IsZero() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": 401,
			"msg":  "用户已被删除",
		})
		return nil, false
	}

	return &user, true
}

type Claims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

func parseToken(tokenString string, secretKey string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名方法: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("无效的token")
}

// GenerateToken 生成JWT token
// 与身份服务约定同一个密钥，本地开发和测试用它直接造令牌
func GenerateToken(userID string) (string, error) {
	// 获取配置
	if config.GlobalConfig == nil {
		return "", fmt.Errorf("配置未初始化")
	}
	jwtConfig := config.GlobalConfig.JWT

	expireTime := time.Now().Add(time.Duration(jwtConfig.ExpireTime) * time.Second)

	claims := Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expireTime.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.Secret))
}
