package sqlstore

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/aaq-platform/aaq-admin/pkg/register"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type UserWorkspaceImpl struct {
	CommonFields
}

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.UserWorkspaceStore = NewUserWorkspaceStore(provider)
	})
}

func NewUserWorkspaceStore(provider SqlProviderAchieve) *UserWorkspaceImpl {
	repo := &UserWorkspaceImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_USER_WORKSPACE)
	repo.SetAllColumns("id", "user_id", "workspace_id", "role", "is_default", "created_at")
	return repo
}

func (s *UserWorkspaceImpl) Create(ctx context.Context, data types.UserWorkspace) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("user_id", "workspace_id", "role", "is_default", "created_at").
		Values(data.UserID, data.WorkspaceID, data.Role, data.IsDefault, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *UserWorkspaceImpl) Get(ctx context.Context, userID, workspaceID string) (*types.UserWorkspace, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"user_id": userID, "workspace_id": workspaceID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.UserWorkspace
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *UserWorkspaceImpl) SetRole(ctx context.Context, userID, workspaceID, role string) error {
	query := sq.Update(s.GetTable()).
		Set("role", role).
		Where(sq.Eq{"user_id": userID, "workspace_id": workspaceID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// SetDefault marks one association as the user's default workspace and clears
// the flag everywhere else. Run inside a transaction by callers that care.
func (s *UserWorkspaceImpl) SetDefault(ctx context.Context, userID, workspaceID string) error {
	clear := sq.Update(s.GetTable()).
		Set("is_default", false).
		Where(sq.Eq{"user_id": userID})

	queryString, args, err := clear.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}
	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}

	mark := sq.Update(s.GetTable()).
		Set("is_default", true).
		Where(sq.Eq{"user_id": userID, "workspace_id": workspaceID})

	queryString, args, err = mark.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}
	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *UserWorkspaceImpl) Delete(ctx context.Context, userID, workspaceID string) error {
	query := sq.Delete(s.GetTable()).
		Where(sq.Eq{"user_id": userID, "workspace_id": workspaceID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *UserWorkspaceImpl) ListUserWorkspaces(ctx context.Context, userID string) ([]types.UserWorkspaceDetail, error) {
	query := sq.Select("uw.user_id", "uw.workspace_id", "w.name AS workspace_name", "uw.role", "uw.is_default").
		From(fmt.Sprintf("%s AS uw", s.GetTable())).
		InnerJoin(fmt.Sprintf("%s AS w ON w.id = uw.workspace_id", types.TABLE_WORKSPACE.Name())).
		Where(sq.Eq{"uw.user_id": userID}).
		OrderBy("uw.created_at ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.UserWorkspaceDetail
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *UserWorkspaceImpl) ListWorkspaceUsers(ctx context.Context, workspaceID string) ([]types.UserWorkspace, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"workspace_id": workspaceID}).
		OrderBy("created_at ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.UserWorkspace
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
