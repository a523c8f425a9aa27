package v1

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/aaq-platform/aaq-admin/app/core"
	"github.com/aaq-platform/aaq-admin/pkg/errors"
	"github.com/aaq-platform/aaq-admin/pkg/i18n"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

type UserLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewUserLogic(ctx context.Context, core *core.Core) *UserLogic {
	return &UserLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

type CreateUserArgs struct {
	Username      string
	Password      string
	IsAdmin       bool
	ContentQuota  int64
	APIDailyQuota int64
	// workspace memberships to grant at creation time
	Workspaces []WorkspaceGrant
}

type WorkspaceGrant struct {
	WorkspaceID string `json:"workspace_id"`
	Role        string `json:"user_role"`
	IsDefault   bool   `json:"default_workspace"`
}

// CreateUser is admin-only; self registration closes after the first account.
func (l *UserLogic) CreateUser(args CreateUserArgs) (*types.UserWithWorkspaces, error) {
	if err := l.RequirePlatformAdmin(); err != nil {
		return nil, err
	}

	exist, err := l.core.Store().UserStore().Exist(l.ctx, args.Username)
	if err != nil {
		return nil, errors.New("UserLogic.CreateUser.UserStore.Exist", i18n.ERROR_INTERNAL, err)
	}
	if exist {
		return nil, errors.New("UserLogic.CreateUser.exist", i18n.ERROR_USERNAME_EXIST, nil).Code(http.StatusBadRequest)
	}

	hash, err := utils.HashPassword(args.Password)
	if err != nil {
		return nil, errors.New("UserLogic.CreateUser.HashPassword", i18n.ERROR_INTERNAL, err)
	}

	if args.ContentQuota <= 0 {
		args.ContentQuota = l.core.Cfg().Quota.ContentQuota
	}
	if args.APIDailyQuota <= 0 {
		args.APIDailyQuota = l.core.Cfg().Quota.APIDailyQuota
	}

	user := types.User{
		ID:            utils.GenUniqIDStr(),
		Username:      args.Username,
		PasswordHash:  hash,
		IsAdmin:       args.IsAdmin,
		ContentQuota:  args.ContentQuota,
		APIDailyQuota: args.APIDailyQuota,
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().UserStore().Create(ctx, user); err != nil {
			return errors.New("UserLogic.CreateUser.UserStore.Create", i18n.ERROR_INTERNAL, err)
		}
		for i, grant := range args.Workspaces {
			role := grant.Role
			if role == "" {
				role = types.WORKSPACE_ROLE_READ_ONLY
			}
			if err := l.core.Store().UserWorkspaceStore().Create(ctx, types.UserWorkspace{
				UserID:      user.ID,
				WorkspaceID: grant.WorkspaceID,
				Role:        role,
				IsDefault:   grant.IsDefault || i == 0,
			}); err != nil {
				return errors.New("UserLogic.CreateUser.UserWorkspaceStore.Create", i18n.ERROR_INTERNAL, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return l.GetUser(user.ID)
}

func (l *UserLogic) GetUser(id string) (*types.UserWithWorkspaces, error) {
	user, err := l.core.Store().UserStore().GetUser(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.GetUser.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}
	if user == nil {
		return nil, errors.New("UserLogic.GetUser.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	workspaces, err := l.core.Store().UserWorkspaceStore().ListUserWorkspaces(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.GetUser.ListUserWorkspaces", i18n.ERROR_INTERNAL, err)
	}
	if workspaces == nil {
		workspaces = []types.UserWorkspaceDetail{}
	}

	return &types.UserWithWorkspaces{User: *user, Workspaces: workspaces}, nil
}

func (l *UserLogic) UpdateUser(id string, args types.UpdateUserArgs) error {
	if err := l.RequirePlatformAdmin(); err != nil {
		return err
	}

	if args.Username != "" {
		existing, err := l.core.Store().UserStore().GetByUsername(l.ctx, args.Username)
		if err != nil && err != sql.ErrNoRows {
			return errors.New("UserLogic.UpdateUser.GetByUsername", i18n.ERROR_INTERNAL, err)
		}
		if existing != nil && existing.ID != id {
			return errors.New("UserLogic.UpdateUser.exist", i18n.ERROR_USERNAME_EXIST, nil).Code(http.StatusBadRequest)
		}
	}

	if err := l.core.Store().UserStore().Update(l.ctx, id, args); err != nil {
		return errors.New("UserLogic.UpdateUser.UserStore.Update", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// ResetPassword sets a fresh random password for the user and returns it so
// the admin can hand it over. Users change it afterwards via ChangePassword.
func (l *UserLogic) ResetPassword(id string) (string, error) {
	if err := l.RequirePlatformAdmin(); err != nil {
		return "", err
	}

	newPassword := utils.RandomStr(16)
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return "", errors.New("UserLogic.ResetPassword.HashPassword", i18n.ERROR_INTERNAL, err)
	}

	if err := l.core.Store().UserStore().UpdatePassword(l.ctx, id, hash); err != nil {
		return "", errors.New("UserLogic.ResetPassword.UpdatePassword", i18n.ERROR_INTERNAL, err)
	}
	return newPassword, nil
}

func (l *UserLogic) ChangePassword(current, next string) error {
	claims := l.GetUserInfo()
	user, err := l.core.Store().UserStore().GetUser(l.ctx, claims.User)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("UserLogic.ChangePassword.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}
	if user == nil || !utils.ComparePassword(user.PasswordHash, current) {
		return errors.New("UserLogic.ChangePassword.mismatch", i18n.ERROR_INVALID_ACCOUNT, nil).Code(http.StatusUnauthorized)
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return errors.New("UserLogic.ChangePassword.HashPassword", i18n.ERROR_INTERNAL, err)
	}
	if err := l.core.Store().UserStore().UpdatePassword(l.ctx, user.ID, hash); err != nil {
		return errors.New("UserLogic.ChangePassword.UpdatePassword", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

type UserListResult struct {
	List  []types.UserWithWorkspaces `json:"list"`
	Total int64                      `json:"total"`
}

func (l *UserLogic) ListUsers(opts types.ListUserOptions, page, pageSize uint64) (*UserListResult, error) {
	if err := l.RequirePlatformAdmin(); err != nil {
		return nil, err
	}

	list, err := l.core.Store().UserStore().List(l.ctx, opts, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.ListUsers.UserStore.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().UserStore().Total(l.ctx, opts)
	if err != nil {
		return nil, errors.New("UserLogic.ListUsers.UserStore.Total", i18n.ERROR_INTERNAL, err)
	}

	result := &UserListResult{
		List:  make([]types.UserWithWorkspaces, 0, len(list)),
		Total: total,
	}
	for _, user := range list {
		workspaces, err := l.core.Store().UserWorkspaceStore().ListUserWorkspaces(l.ctx, user.ID)
		if err != nil && err != sql.ErrNoRows {
			return nil, errors.New("UserLogic.ListUsers.ListUserWorkspaces", i18n.ERROR_INTERNAL, err)
		}
		if workspaces == nil {
			workspaces = []types.UserWorkspaceDetail{}
		}
		result.List = append(result.List, types.UserWithWorkspaces{User: user, Workspaces: workspaces})
	}
	return result, nil
}
