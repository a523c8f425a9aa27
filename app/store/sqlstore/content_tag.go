package sqlstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/aaq-platform/aaq-admin/pkg/register"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type ContentTagImpl struct {
	CommonFields
}

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ContentTagStore = NewContentTagStore(provider)
	})
}

func NewContentTagStore(provider SqlProviderAchieve) *ContentTagImpl {
	repo := &ContentTagImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CONTENT_TAG)
	repo.SetAllColumns("id", "content_id", "tag_id")
	return repo
}

// SetContentTags replaces a card's tag set. Run inside a transaction when the
// card itself is being written at the same time.
func (s *ContentTagImpl) SetContentTags(ctx context.Context, contentID string, tagIDs []string) error {
	if err := s.DeleteByContent(ctx, contentID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).Columns("content_id", "tag_id")
	for _, tagID := range tagIDs {
		query = query.Values(contentID, tagID)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentTagImpl) ListByContents(ctx context.Context, contentIDs []string) ([]types.ContentTag, error) {
	if len(contentIDs) == 0 {
		return nil, nil
	}
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"content_id": contentIDs})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.ContentTag
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteByTag 标签删除后级联清理所有内容的关联
func (s *ContentTagImpl) DeleteByTag(ctx context.Context, tagID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"tag_id": tagID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentTagImpl) DeleteByContent(ctx context.Context, contentID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"content_id": contentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// CountByTags returns tag_id -> usage count for one workspace, used by the
// dashboard topic visualization.
func (s *ContentTagImpl) CountByTags(ctx context.Context, workspaceID string) (map[string]int64, error) {
	query := sq.Select("ct.tag_id", "COUNT(*) AS total").
		From(s.GetTable() + " AS ct").
		InnerJoin(fmt.Sprintf("%s AS t ON t.id = ct.tag_id", types.TABLE_TAG.Name())).
		Where(sq.Eq{"t.workspace_id": workspaceID}).
		GroupBy("ct.tag_id")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var rows []struct {
		TagID string `db:"tag_id"`
		Total int64  `db:"total"`
	}
	if err = s.GetReplica(ctx).Select(&rows, queryString, args...); err != nil {
		return nil, err
	}

	res := make(map[string]int64, len(rows))
	for _, row := range rows {
		res[row.TagID] = row.Total
	}
	return res, nil
}
