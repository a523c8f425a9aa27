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

type WorkspaceLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewWorkspaceLogic(ctx context.Context, core *core.Core) *WorkspaceLogic {
	return &WorkspaceLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

type CreateWorkspaceArgs struct {
	Name          string
	ContentQuota  int64
	APIDailyQuota int64
}

func (l *WorkspaceLogic) CreateWorkspace(args CreateWorkspaceArgs) (*types.Workspace, error) {
	if err := l.RequirePlatformAdmin(); err != nil {
		return nil, err
	}
	if args.Name == "" {
		return nil, errors.New("WorkspaceLogic.CreateWorkspace.name", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusUnprocessableEntity)
	}

	if args.ContentQuota <= 0 {
		args.ContentQuota = l.core.Cfg().Quota.ContentQuota
	}
	if args.APIDailyQuota <= 0 {
		args.APIDailyQuota = l.core.Cfg().Quota.APIDailyQuota
	}

	data := types.Workspace{
		ID:            utils.GenUniqIDStr(),
		Name:          args.Name,
		ContentQuota:  args.ContentQuota,
		APIDailyQuota: args.APIDailyQuota,
	}

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().WorkspaceStore().Create(ctx, data); err != nil {
			return errors.New("WorkspaceLogic.CreateWorkspace.WorkspaceStore.Create", i18n.ERROR_INTERNAL, err)
		}
		// creator joins as workspace admin
		if err := l.core.Store().UserWorkspaceStore().Create(ctx, types.UserWorkspace{
			UserID:      l.GetUserInfo().User,
			WorkspaceID: data.ID,
			Role:        types.WORKSPACE_ROLE_ADMIN,
		}); err != nil {
			return errors.New("WorkspaceLogic.CreateWorkspace.UserWorkspaceStore.Create", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &data, nil
}

func (l *WorkspaceLogic) GetWorkspace(id string) (*types.Workspace, error) {
	data, err := l.core.Store().WorkspaceStore().Get(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("WorkspaceLogic.GetWorkspace.WorkspaceStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if data == nil {
		return nil, errors.New("WorkspaceLogic.GetWorkspace.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	return data, nil
}

func (l *WorkspaceLogic) UpdateWorkspace(id string, args types.UpdateWorkspaceArgs) error {
	if err := l.RequireWorkspaceAdmin(); err != nil {
		return err
	}
	if err := l.core.Store().WorkspaceStore().Update(l.ctx, id, args); err != nil {
		return errors.New("WorkspaceLogic.UpdateWorkspace.WorkspaceStore.Update", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

type WorkspaceListResult struct {
	List  []types.Workspace `json:"list"`
	Total int64             `json:"total"`
}

func (l *WorkspaceLogic) ListWorkspaces(page, pageSize uint64) (*WorkspaceListResult, error) {
	if err := l.RequirePlatformAdmin(); err != nil {
		return nil, err
	}

	list, err := l.core.Store().WorkspaceStore().List(l.ctx, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("WorkspaceLogic.ListWorkspaces.WorkspaceStore.List", i18n.ERROR_INTERNAL, err)
	}
	total, err := l.core.Store().WorkspaceStore().Total(l.ctx)
	if err != nil {
		return nil, errors.New("WorkspaceLogic.ListWorkspaces.WorkspaceStore.Total", i18n.ERROR_INTERNAL, err)
	}

	if list == nil {
		list = []types.Workspace{}
	}
	return &WorkspaceListResult{List: list, Total: total}, nil
}

// ListMyWorkspaces returns the caller's memberships, for the workspace picker.
func (l *WorkspaceLogic) ListMyWorkspaces() ([]types.UserWorkspaceDetail, error) {
	list, err := l.core.Store().UserWorkspaceStore().ListUserWorkspaces(l.ctx, l.GetUserInfo().User)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("WorkspaceLogic.ListMyWorkspaces.ListUserWorkspaces", i18n.ERROR_INTERNAL, err)
	}
	if list == nil {
		list = []types.UserWorkspaceDetail{}
	}
	return list, nil
}

type SwitchWorkspaceResult struct {
	Token       string `json:"access_token"`
	WorkspaceID string `json:"workspace_id"`
	Role        string `json:"user_role"`
}

// SwitchWorkspace re-issues the token scoped to another workspace the caller
// belongs to, and remembers it as the new default.
func (l *WorkspaceLogic) SwitchWorkspace(workspaceID string) (*SwitchWorkspaceResult, error) {
	claims := l.GetUserInfo()

	membership, err := l.core.Store().UserWorkspaceStore().Get(l.ctx, claims.User, workspaceID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("WorkspaceLogic.SwitchWorkspace.UserWorkspaceStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if membership == nil {
		return nil, errors.New("WorkspaceLogic.SwitchWorkspace.not_member", i18n.ERROR_WORKSPACE_NOT_MEMBER, nil).Code(http.StatusForbidden)
	}

	user, err := l.core.Store().UserStore().GetUser(l.ctx, claims.User)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("WorkspaceLogic.SwitchWorkspace.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}
	if user == nil {
		return nil, errors.New("WorkspaceLogic.SwitchWorkspace.user.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	if err := l.core.Store().UserWorkspaceStore().SetDefault(l.ctx, claims.User, workspaceID); err != nil {
		return nil, errors.New("WorkspaceLogic.SwitchWorkspace.SetDefault", i18n.ERROR_INTERNAL, err)
	}

	token, err := NewAuthLogic(l.ctx, l.core).issueToken(*user, workspaceID, membership.Role)
	if err != nil {
		return nil, err
	}

	return &SwitchWorkspaceResult{
		Token:       token,
		WorkspaceID: workspaceID,
		Role:        membership.Role,
	}, nil
}

// AddMember grants a user access to the workspace with the given role.
func (l *WorkspaceLogic) AddMember(workspaceID, userID, role string) error {
	if err := l.RequireWorkspaceAdmin(); err != nil {
		return err
	}
	if role != types.WORKSPACE_ROLE_ADMIN && role != types.WORKSPACE_ROLE_READ_ONLY {
		return errors.New("WorkspaceLogic.AddMember.role", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusUnprocessableEntity)
	}

	existing, err := l.core.Store().UserWorkspaceStore().Get(l.ctx, userID, workspaceID)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("WorkspaceLogic.AddMember.UserWorkspaceStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if existing != nil {
		return l.core.Store().UserWorkspaceStore().SetRole(l.ctx, userID, workspaceID, role)
	}

	if err := l.core.Store().UserWorkspaceStore().Create(l.ctx, types.UserWorkspace{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        role,
	}); err != nil {
		return errors.New("WorkspaceLogic.AddMember.UserWorkspaceStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *WorkspaceLogic) RemoveMember(workspaceID, userID string) error {
	if err := l.RequireWorkspaceAdmin(); err != nil {
		return err
	}
	if err := l.core.Store().UserWorkspaceStore().Delete(l.ctx, userID, workspaceID); err != nil {
		return errors.New("WorkspaceLogic.RemoveMember.UserWorkspaceStore.Delete", i18n.ERROR_INTERNAL, err)
	}
	return nil
}
