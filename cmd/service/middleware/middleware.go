package middleware

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/aaq-platform/aaq-admin/app/core"
	v1 "github.com/aaq-platform/aaq-admin/app/logic/v1"
	"github.com/aaq-platform/aaq-admin/app/response"
	"github.com/aaq-platform/aaq-admin/pkg/errors"
	"github.com/aaq-platform/aaq-admin/pkg/i18n"
	"github.com/aaq-platform/aaq-admin/pkg/security"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

func AcceptLanguage() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		lang := ctx.Request.Header.Get("Accept-Language")
		ctx.Set(v1.LANGUAGE_KEY, lo.If(strings.Contains(lang, "zh"), types.LANGUAGE_CN_KEY).Else(types.LANGUAGE_EN_KEY))
	}
}

// Authorization verifies the bearer token and stores the claims for handlers.
func Authorization(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenValue := c.GetHeader(security.TOKEN_KEY)
		tokenValue = strings.TrimPrefix(tokenValue, "Bearer ")
		if tokenValue == "" {
			response.APIError(c, errors.New("middleware.Authorization.nil", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		claims, err := security.VerifyToken(tokenValue, []byte(appCore.Cfg().Security.TokenSecret))
		if err != nil {
			response.APIError(c, errors.New("middleware.Authorization.VerifyToken", i18n.ERROR_INVALID_TOKEN, err).Code(http.StatusUnauthorized))
			return
		}
		if err = claims.Valid(); err != nil {
			response.APIError(c, errors.New("middleware.Authorization.expired", i18n.ERROR_INVALID_TOKEN, err).Code(http.StatusUnauthorized))
			return
		}

		c.Set(v1.TOKEN_CONTEXT_KEY, *claims)
		c.Set("user", claims.User)
	}
}

// VerifyWorkspaceRole rejects requests whose token role is not in the allowed
// set. Platform admins always pass.
func VerifyWorkspaceRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := v1.InjectTokenClaim(c)
		if !ok {
			response.APIError(c, errors.New("middleware.VerifyWorkspaceRole.GetToken", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}
		if claims.IsAdmin || lo.Contains(roles, claims.Role) {
			return
		}
		response.APIError(c, errors.New("middleware.VerifyWorkspaceRole.check", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden))
	}
}

// ApiDailyQuota counts requests per user per UTC day in redis and rejects
// with the quota error once the user's daily allowance is spent.
func ApiDailyQuota(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := v1.InjectTokenClaim(c)
		if !ok {
			return
		}

		user, err := appCore.Store().UserStore().GetUser(c, claims.User)
		if err != nil && err != sql.ErrNoRows {
			response.APIError(c, errors.New("middleware.ApiDailyQuota.GetUser", i18n.ERROR_INTERNAL, err))
			return
		}
		if user == nil {
			return
		}

		key := "quota:api:" + user.ID + ":" + time.Now().UTC().Format("2006-01-02")
		count, err := appCore.Cache().Incr(c, key)
		if err != nil {
			// quota accounting must not take the API down with redis
			return
		}
		if count == 1 {
			_ = appCore.Cache().Expire(c, key, time.Hour*25)
		}
		if count > user.APIDailyQuota {
			response.APIError(c, errors.New("middleware.ApiDailyQuota.exceeded", i18n.ERROR_QUOTA_EXCEEDED, nil).Code(http.StatusForbidden))
		}
	}
}

func Cors(c *gin.Context) {
	method := c.Request.Method
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE, HEAD")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
	}
	c.Next()
}

type LimiterFunc func(key string, opts ...core.LimitOption) gin.HandlerFunc

func UseLimit(appCore *core.Core, genKeyFunc func(c *gin.Context) string, opts ...core.LimitOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appCore.UseLimiter(genKeyFunc(c), opts...).Allow() {
			response.APIError(c, errors.New("middleware.limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}
