package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/aaq-platform/aaq-admin/pkg/register"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type WorkspaceImpl struct {
	CommonFields
}

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.WorkspaceStore = NewWorkspaceStore(provider)
	})
}

func NewWorkspaceStore(provider SqlProviderAchieve) *WorkspaceImpl {
	repo := &WorkspaceImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_WORKSPACE)
	repo.SetAllColumns("id", "name", "content_quota", "api_daily_quota", "updated_at", "created_at")
	return repo
}

func (s *WorkspaceImpl) Create(ctx context.Context, data types.Workspace) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "name", "content_quota", "api_daily_quota", "updated_at", "created_at").
		Values(data.ID, data.Name, data.ContentQuota, data.APIDailyQuota, data.UpdatedAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *WorkspaceImpl) Get(ctx context.Context, id string) (*types.Workspace, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Workspace
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *WorkspaceImpl) Update(ctx context.Context, id string, data types.UpdateWorkspaceArgs) error {
	query := sq.Update(s.GetTable()).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	if data.Name != "" {
		query = query.Set("name", data.Name)
	}
	if data.ContentQuota != nil {
		query = query.Set("content_quota", *data.ContentQuota)
	}
	if data.APIDailyQuota != nil {
		query = query.Set("api_daily_quota", *data.APIDailyQuota)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *WorkspaceImpl) List(ctx context.Context, page, pageSize uint64) ([]types.Workspace, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("created_at ASC")
	query = applyPagination(query, page, pageSize)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Workspace
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *WorkspaceImpl) Total(ctx context.Context) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var res int64
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return 0, err
	}
	return res, nil
}
