package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/aaq-platform/aaq-admin/pkg/register"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type ContentImpl struct {
	CommonFields
}

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ContentStore = NewContentStore(provider)
	})
}

func NewContentStore(provider SqlProviderAchieve) *ContentImpl {
	repo := &ContentImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CONTENT)
	repo.SetAllColumns(
		"id", "workspace_id", "title", "text", "metadata", "related_ids", "positive_votes",
		"negative_votes", "display_number", "is_archived", "is_validated", "user_id", "updated_at", "created_at",
	)
	return repo
}

// Create 创建内容卡片
func (s *ContentImpl) Create(ctx context.Context, data types.Content) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "workspace_id", "title", "text", "metadata", "related_ids", "positive_votes",
			"negative_votes", "display_number", "is_archived", "is_validated", "user_id", "updated_at", "created_at").
		Values(data.ID, data.WorkspaceID, data.Title, data.Text, data.Metadata, data.RelatedIDs, data.PositiveVotes,
			data.NegativeVotes, data.DisplayNumber, data.IsArchived, data.IsValidated, data.UserID, data.UpdatedAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentImpl) BatchCreate(ctx context.Context, datas []*types.Content) error {
	if len(datas) == 0 {
		return nil
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "workspace_id", "title", "text", "metadata", "related_ids", "positive_votes",
			"negative_votes", "display_number", "is_archived", "is_validated", "user_id", "updated_at", "created_at")

	now := time.Now().Unix()
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		if data.UpdatedAt == 0 {
			data.UpdatedAt = now
		}
		query = query.Values(data.ID, data.WorkspaceID, data.Title, data.Text, data.Metadata, data.RelatedIDs, data.PositiveVotes,
			data.NegativeVotes, data.DisplayNumber, data.IsArchived, data.IsValidated, data.UserID, data.UpdatedAt, data.CreatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentImpl) Get(ctx context.Context, workspaceID, id string) (*types.Content, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"workspace_id": workspaceID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Content
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *ContentImpl) Update(ctx context.Context, workspaceID, id string, data types.UpdateContentArgs) error {
	query := sq.Update(s.GetTable()).
		Set("title", data.Title).
		Set("text", data.Text).
		Set("metadata", data.Metadata).
		Set("related_ids", pq.StringArray(data.RelatedIDs)).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"workspace_id": workspaceID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentImpl) SetArchived(ctx context.Context, workspaceID, id string, archived bool) error {
	return s.setFlag(ctx, workspaceID, id, "is_archived", archived)
}

func (s *ContentImpl) SetValidated(ctx context.Context, workspaceID, id string, validated bool) error {
	return s.setFlag(ctx, workspaceID, id, "is_validated", validated)
}

func (s *ContentImpl) setFlag(ctx context.Context, workspaceID, id, column string, value bool) error {
	query := sq.Update(s.GetTable()).
		Set(column, value).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"workspace_id": workspaceID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentImpl) AddVote(ctx context.Context, workspaceID, id string, positive bool) error {
	column := "negative_votes"
	if positive {
		column = "positive_votes"
	}
	query := sq.Update(s.GetTable()).
		Set(column, sq.Expr(column+" + 1")).
		Where(sq.Eq{"workspace_id": workspaceID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentImpl) Delete(ctx context.Context, workspaceID, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"workspace_id": workspaceID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// List 按 skip/limit 分页获取内容列表
func (s *ContentImpl) List(ctx context.Context, opts types.ListContentOptions, skip, limit uint64) ([]types.Content, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("created_at DESC")
	opts.Apply(&query)
	if limit != types.NO_PAGINATION {
		query = query.Limit(limit).Offset(skip)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Content
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ContentImpl) Total(ctx context.Context, opts types.ListContentOptions) (int64, error) {
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

func (s *ContentImpl) CountUnvalidated(ctx context.Context, workspaceID string) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).
		Where(sq.Eq{"workspace_id": workspaceID, "is_validated": false, "is_archived": false})

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

// NextUnvalidated 返回最早创建的未校验内容
func (s *ContentImpl) NextUnvalidated(ctx context.Context, workspaceID string) (*types.Content, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"workspace_id": workspaceID, "is_validated": false, "is_archived": false}).
		OrderBy("created_at ASC").Limit(1)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Content
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *ContentImpl) MaxDisplayNumber(ctx context.Context, workspaceID string) (int64, error) {
	query := sq.Select("COALESCE(MAX(display_number), 0)").From(s.GetTable()).
		Where(sq.Eq{"workspace_id": workspaceID})

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
