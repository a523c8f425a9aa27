package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaq-platform/aaq-admin/app/core"
	"github.com/aaq-platform/aaq-admin/pkg/errors"
	"github.com/aaq-platform/aaq-admin/pkg/i18n"
	"github.com/aaq-platform/aaq-admin/pkg/security"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

const (
	TOKEN_CONTEXT_KEY = "__aaq.access_token"
	LANGUAGE_KEY      = "__aaq.accept_language"
)

// InjectTokenClaim gets the verified token claims from context.
func InjectTokenClaim(ctx context.Context) (security.TokenClaims, bool) {
	val, ok := ctx.Value(TOKEN_CONTEXT_KEY).(security.TokenClaims)
	return val, ok
}

func InjectLanguage(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(LANGUAGE_KEY).(string)
	return val, ok
}

type UserInfo interface {
	GetUserInfo() security.TokenClaims
	RequireWorkspaceAdmin() error
	RequirePlatformAdmin() error
}

type _userInfo struct {
	ctx  context.Context
	core *core.Core
	u    *security.TokenClaims
}

func (u *_userInfo) GetUserInfo() security.TokenClaims {
	return *u.u
}

// RequireWorkspaceAdmin passes for workspace admins and platform admins.
func (u *_userInfo) RequireWorkspaceAdmin() error {
	claims := u.GetUserInfo()
	if claims.IsAdmin || claims.Role == types.WORKSPACE_ROLE_ADMIN {
		return nil
	}
	return errors.New("userInfo.RequireWorkspaceAdmin", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
}

func (u *_userInfo) RequirePlatformAdmin() error {
	if u.GetUserInfo().IsAdmin {
		return nil
	}
	return errors.New("userInfo.RequirePlatformAdmin", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
}

func SetupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	userInfo, ok := InjectTokenClaim(ctx)
	if !ok {
		slog.Error("Not found user in context", slog.String("component", "logic.v1.setupUserInfo"))
		userInfo = security.TokenClaims{}
	}
	return &_userInfo{
		ctx:  ctx,
		u:    &userInfo,
		core: core,
	}
}
