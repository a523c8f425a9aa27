package v1

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/aaq-platform/aaq-admin/app/core"
	"github.com/aaq-platform/aaq-admin/pkg/errors"
	"github.com/aaq-platform/aaq-admin/pkg/i18n"
	"github.com/aaq-platform/aaq-admin/pkg/security"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

type AuthLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewAuthLogic(ctx context.Context, core *core.Core) *AuthLogic {
	return &AuthLogic{
		ctx:  ctx,
		core: core,
	}
}

type LoginResult struct {
	Token       string                      `json:"access_token"`
	User        types.User                  `json:"user"`
	Workspaces  []types.UserWorkspaceDetail `json:"user_workspaces"`
	WorkspaceID string                      `json:"workspace_id"`
	Role        string                      `json:"user_role"`
}

// Login verifies credentials and issues a token scoped to the user's default
// workspace. Password mismatches and unknown usernames return the same error.
func (l *AuthLogic) Login(username, password string) (*LoginResult, error) {
	user, err := l.core.Store().UserStore().GetByUsername(l.ctx, username)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("AuthLogic.Login.UserStore.GetByUsername", i18n.ERROR_INTERNAL, err)
	}

	if user == nil || !utils.ComparePassword(user.PasswordHash, password) {
		return nil, errors.New("AuthLogic.Login.mismatch", i18n.ERROR_INVALID_ACCOUNT, nil).Code(http.StatusUnauthorized)
	}

	workspaces, err := l.core.Store().UserWorkspaceStore().ListUserWorkspaces(l.ctx, user.ID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("AuthLogic.Login.UserWorkspaceStore.ListUserWorkspaces", i18n.ERROR_INTERNAL, err)
	}

	var active types.UserWorkspaceDetail
	for _, w := range workspaces {
		if w.IsDefault {
			active = w
			break
		}
	}
	if active.WorkspaceID == "" && len(workspaces) > 0 {
		active = workspaces[0]
	}

	token, err := l.issueToken(*user, active.WorkspaceID, active.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:       token,
		User:        *user,
		Workspaces:  workspaces,
		WorkspaceID: active.WorkspaceID,
		Role:        active.Role,
	}, nil
}

func (l *AuthLogic) issueToken(user types.User, workspaceID, role string) (string, error) {
	expireAt := time.Now().Add(time.Hour * time.Duration(l.core.Cfg().Security.TokenExpireHour)).Unix()
	claims := security.NewTokenClaims(user.ID, user.Username, workspaceID, role, user.IsAdmin, expireAt)
	token, err := security.GenerateJWT(claims, []byte(l.core.Cfg().Security.TokenSecret))
	if err != nil {
		return "", errors.New("AuthLogic.issueToken.GenerateJWT", i18n.ERROR_INTERNAL, err)
	}
	return token, nil
}

// RegistrationRequired reports whether the instance still waits for its
// first account to be created.
func (l *AuthLogic) RegistrationRequired() (bool, error) {
	total, err := l.core.Store().UserStore().Total(l.ctx, types.ListUserOptions{})
	if err != nil {
		return false, errors.New("AuthLogic.RegistrationRequired.UserStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return total == 0, nil
}

// Register only serves the very first account, which becomes the platform
// admin with a default workspace. Later accounts are created by admins.
func (l *AuthLogic) Register(username, password string) (*LoginResult, error) {
	total, err := l.core.Store().UserStore().Total(l.ctx, types.ListUserOptions{})
	if err != nil {
		return nil, errors.New("AuthLogic.Register.UserStore.Total", i18n.ERROR_INTERNAL, err)
	}
	if total > 0 {
		return nil, errors.New("AuthLogic.Register.closed", i18n.ERROR_REGISTER_CLOSED, nil).Code(http.StatusForbidden)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, errors.New("AuthLogic.Register.HashPassword", i18n.ERROR_INTERNAL, err)
	}

	user := types.User{
		ID:            utils.GenUniqIDStr(),
		Username:      username,
		PasswordHash:  hash,
		IsAdmin:       true,
		ContentQuota:  l.core.Cfg().Quota.ContentQuota,
		APIDailyQuota: l.core.Cfg().Quota.APIDailyQuota,
	}
	workspace := types.Workspace{
		ID:            utils.GenUniqIDStr(),
		Name:          username + "'s workspace",
		ContentQuota:  l.core.Cfg().Quota.ContentQuota,
		APIDailyQuota: l.core.Cfg().Quota.APIDailyQuota,
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().UserStore().Create(ctx, user); err != nil {
			return errors.New("AuthLogic.Register.UserStore.Create", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().WorkspaceStore().Create(ctx, workspace); err != nil {
			return errors.New("AuthLogic.Register.WorkspaceStore.Create", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().UserWorkspaceStore().Create(ctx, types.UserWorkspace{
			UserID:      user.ID,
			WorkspaceID: workspace.ID,
			Role:        types.WORKSPACE_ROLE_ADMIN,
			IsDefault:   true,
		}); err != nil {
			return errors.New("AuthLogic.Register.UserWorkspaceStore.Create", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return l.Login(username, password)
}
