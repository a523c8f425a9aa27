package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/aaq-platform/aaq-admin/pkg/register"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type IndexJobImpl struct {
	CommonFields
}

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.IndexJobStore = NewIndexJobStore(provider)
	})
}

func NewIndexJobStore(provider SqlProviderAchieve) *IndexJobImpl {
	repo := &IndexJobImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_INDEX_JOB)
	repo.SetAllColumns("id", "workspace_id", "user_id", "parent_file_name", "file_url",
		"overall_status", "error_trace", "created_at", "finished_at")
	return repo
}

func (s *IndexJobImpl) Create(ctx context.Context, data types.IndexJob) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.OverallStatus == "" {
		data.OverallStatus = types.JOB_STATUS_IN_PROGRESS
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "workspace_id", "user_id", "parent_file_name", "file_url",
			"overall_status", "error_trace", "created_at", "finished_at").
		Values(data.ID, data.WorkspaceID, data.UserID, data.ParentFileName, data.FileURL,
			data.OverallStatus, data.ErrorTrace, data.CreatedAt, data.FinishedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *IndexJobImpl) Get(ctx context.Context, workspaceID, id string) (*types.IndexJob, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"id": id, "workspace_id": workspaceID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.IndexJob
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *IndexJobImpl) GetByID(ctx context.Context, id string) (*types.IndexJob, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.IndexJob
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *IndexJobImpl) List(ctx context.Context, opts types.ListIndexJobOptions, page, pageSize uint64) ([]types.IndexJob, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("created_at DESC")
	opts.Apply(&query)
	query = applyPagination(query, page, pageSize)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.IndexJob
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *IndexJobImpl) Total(ctx context.Context, opts types.ListIndexJobOptions) (int64, error) {
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

func (s *IndexJobImpl) UpdateStatus(ctx context.Context, id string, status types.JobStatus, errorTrace string, finishedAt int64) error {
	query := sq.Update(s.GetTable()).
		Set("overall_status", status).
		Where(sq.Eq{"id": id})

	if errorTrace != "" {
		query = query.Set("error_trace", errorTrace)
	}
	if finishedAt > 0 {
		query = query.Set("finished_at", finishedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *IndexJobImpl) AnyRunning(ctx context.Context, workspaceID string) (bool, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).
		Where(sq.Eq{"workspace_id": workspaceID, "overall_status": types.JOB_STATUS_IN_PROGRESS})

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	var res int64
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return false, err
	}
	return res > 0, nil
}

// DeleteOlderThan purges settled jobs past the retention cutoff, child tasks
// included. In-progress jobs are never purged, the stale-task loop fails them
// first.
func (s *IndexJobImpl) DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	terminal := []types.JobStatus{types.JOB_STATUS_SUCCESS, types.JOB_STATUS_FAILED}

	taskQuery := sq.Delete(types.TABLE_INDEX_TASK.Name()).
		Where(sq.Expr("job_id IN (SELECT id FROM "+s.GetTable()+" WHERE created_at < ? AND overall_status IN (?,?))",
			cutoff, terminal[0], terminal[1]))

	queryString, args, err := taskQuery.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}
	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return 0, err
	}

	query := sq.Delete(s.GetTable()).
		Where(sq.Lt{"created_at": cutoff}).
		Where(sq.Eq{"overall_status": terminal})

	queryString, args, err = query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	result, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
