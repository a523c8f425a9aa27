package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/aaq-platform/aaq-admin/pkg/register"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type IndexTaskImpl struct {
	CommonFields
}

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.IndexTaskStore = NewIndexTaskStore(provider)
	})
}

func NewIndexTaskStore(provider SqlProviderAchieve) *IndexTaskImpl {
	repo := &IndexTaskImpl{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_INDEX_TASK)
	repo.SetAllColumns("id", "job_id", "doc_name", "status", "error_trace",
		"created_at", "updated_at", "finished_at")
	return repo
}

func (s *IndexTaskImpl) BatchCreate(ctx context.Context, datas []*types.IndexTask) error {
	if len(datas) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).
		Columns("id", "job_id", "doc_name", "status", "error_trace",
			"created_at", "updated_at", "finished_at")

	now := time.Now().Unix()
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		if data.UpdatedAt == 0 {
			data.UpdatedAt = now
		}
		if data.Status == "" {
			data.Status = types.TASK_STATUS_QUEUED
		}
		query = query.Values(data.ID, data.JobID, data.DocName, data.Status, data.ErrorTrace,
			data.CreatedAt, data.UpdatedAt, data.FinishedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *IndexTaskImpl) Get(ctx context.Context, id string) (*types.IndexTask, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.IndexTask
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *IndexTaskImpl) ListByJob(ctx context.Context, jobID string) ([]types.IndexTask, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"job_id": jobID}).
		OrderBy("created_at ASC", "doc_name ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.IndexTask
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *IndexTaskImpl) ListByJobs(ctx context.Context, jobIDs []string) ([]types.IndexTask, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"job_id": jobIDs}).
		OrderBy("created_at ASC", "doc_name ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.IndexTask
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *IndexTaskImpl) UpdateStatus(ctx context.Context, id string, status types.TaskStatus, errorTrace string, finishedAt int64) error {
	query := sq.Update(s.GetTable()).
		Set("status", status).
		Set("updated_at", time.Now().Unix()).
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

// FailStale marks every non-terminal task last touched before the cutoff as
// failed, so abandoned workers cannot pin a job in progress forever.
func (s *IndexTaskImpl) FailStale(ctx context.Context, updatedBefore int64, errorTrace string) (int64, error) {
	now := time.Now().Unix()
	query := sq.Update(s.GetTable()).
		Set("status", types.TASK_STATUS_FAILED).
		Set("error_trace", errorTrace).
		Set("updated_at", now).
		Set("finished_at", now).
		Where(sq.Eq{"status": []types.TaskStatus{types.TASK_STATUS_QUEUED, types.TASK_STATUS_IN_PROGRESS}}).
		Where(sq.Lt{"updated_at": updatedBefore})

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	result, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
