package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/aaq-platform/aaq-admin/pkg/register"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type TagImpl struct {
	CommonFields
}

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.TagStore = NewTagStore(provider)
	})
}

func NewTagStore(provider SqlProviderAchieve) *TagImpl {
	repo := &TagImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_TAG)
	repo.SetAllColumns("id", "workspace_id", "name", "created_at")
	return repo
}

func (s *TagImpl) Create(ctx context.Context, data types.Tag) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "workspace_id", "name", "created_at").
		Values(data.ID, data.WorkspaceID, data.Name, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *TagImpl) Get(ctx context.Context, workspaceID, id string) (*types.Tag, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"workspace_id": workspaceID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Tag
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetByName 名称大小写不敏感
func (s *TagImpl) GetByName(ctx context.Context, workspaceID, name string) (*types.Tag, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"workspace_id": workspaceID}).
		Where(sq.Expr("LOWER(name) = LOWER(?)", name))

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Tag
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *TagImpl) Delete(ctx context.Context, workspaceID, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"workspace_id": workspaceID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *TagImpl) List(ctx context.Context, opts types.ListTagOptions, page, pageSize uint64) ([]types.Tag, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("name ASC")
	opts.Apply(&query)
	query = applyPagination(query, page, pageSize)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Tag
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *TagImpl) Total(ctx context.Context, opts types.ListTagOptions) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)

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
