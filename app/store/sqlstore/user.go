package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/aaq-platform/aaq-admin/pkg/register"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type UserImpl struct {
	CommonFields
}

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.UserStore = NewUserStore(provider)
	})
}

func NewUserStore(provider SqlProviderAchieve) *UserImpl {
	repo := &UserImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_USER)
	repo.SetAllColumns("id", "username", "password_hash", "is_admin", "content_quota", "api_daily_quota", "updated_at", "created_at")
	return repo
}

func (s *UserImpl) Create(ctx context.Context, data types.User) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "username", "password_hash", "is_admin", "content_quota", "api_daily_quota", "updated_at", "created_at").
		Values(data.ID, data.Username, data.PasswordHash, data.IsAdmin, data.ContentQuota, data.APIDailyQuota, data.UpdatedAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *UserImpl) GetUser(ctx context.Context, id string) (*types.User, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.User
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *UserImpl) GetByUsername(ctx context.Context, username string) (*types.User, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Expr("LOWER(username) = LOWER(?)", username))

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.User
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *UserImpl) Exist(ctx context.Context, username string) (bool, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).
		Where(sq.Expr("LOWER(username) = LOWER(?)", username))

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	var count int64
	if err = s.GetReplica(ctx).Get(&count, queryString, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *UserImpl) Update(ctx context.Context, id string, data types.UpdateUserArgs) error {
	query := sq.Update(s.GetTable()).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	if data.Username != "" {
		query = query.Set("username", data.Username)
	}
	if data.IsAdmin != nil {
		query = query.Set("is_admin", *data.IsAdmin)
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

func (s *UserImpl) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := sq.Update(s.GetTable()).
		Set("password_hash", passwordHash).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *UserImpl) List(ctx context.Context, opts types.ListUserOptions, page, pageSize uint64) ([]types.User, error) {
	query := sq.Select(s.GetAllColumnsWithPrefix(s.GetTable())...).From(s.GetTable()).OrderBy("created_at ASC")
	opts.Apply(&query)
	query = applyPagination(query, page, pageSize)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.User
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *UserImpl) Total(ctx context.Context, opts types.ListUserOptions) (int64, error) {
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
