package v1

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/aaq-platform/aaq-admin/app/core"
	"github.com/aaq-platform/aaq-admin/pkg/errors"
	"github.com/aaq-platform/aaq-admin/pkg/i18n"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

// runningFlagTTL bounds how long the redis fast-path flag can claim a job is
// running without the rollup loop refreshing it.
const runningFlagTTL = time.Minute * 10

func runningFlagKey(workspaceID string) string {
	return "docmuncher:running:" + workspaceID
}

type DocmuncherLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewDocmuncherLogic(ctx context.Context, core *core.Core) *DocmuncherLogic {
	return &DocmuncherLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// Upload accepts a single PDF or a ZIP batch, stores the original file, and
// fans the batch out into one task per document. A ZIP with no PDF inside is
// rejected up front; nothing should create a job that can never settle.
func (l *DocmuncherLogic) Upload(workspaceID, filename string, content []byte) (*types.IndexJobDetail, error) {
	if err := l.RequireWorkspaceAdmin(); err != nil {
		return nil, err
	}

	var docNames []string
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf":
		docNames = []string{filename}
	case ".zip":
		reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
		if err != nil {
			return nil, errors.New("DocmuncherLogic.Upload.zip", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
		}
		for _, f := range reader.File {
			if f.FileInfo().IsDir() {
				continue
			}
			if strings.ToLower(path.Ext(f.Name)) == ".pdf" {
				docNames = append(docNames, f.Name)
			}
		}
		if len(docNames) == 0 {
			return nil, errors.New("DocmuncherLogic.Upload.empty_zip", i18n.ERROR_UNSUPPORTED_FILE_TYPE, nil).Code(http.StatusUnprocessableEntity)
		}
	default:
		return nil, errors.New("DocmuncherLogic.Upload.ext", i18n.ERROR_UNSUPPORTED_FILE_TYPE, nil).Code(http.StatusUnprocessableEntity)
	}

	jobID := utils.GenUniqIDStr()
	filePath := fmt.Sprintf("%s%s/%s/%s", types.FIXED_S3_UPLOAD_PATH_PREFIX, workspaceID, jobID, filename)
	if err := l.core.FileStorage().SaveFile(l.ctx, filePath, bytes.NewReader(content)); err != nil {
		return nil, errors.New("DocmuncherLogic.Upload.SaveFile", i18n.ERROR_INTERNAL, err)
	}

	job := types.IndexJob{
		ID:             jobID,
		WorkspaceID:    workspaceID,
		UserID:         l.GetUserInfo().User,
		ParentFileName: filename,
		FileURL:        filePath,
		OverallStatus:  types.JOB_STATUS_IN_PROGRESS,
	}
	tasks := lo.Map(docNames, func(name string, _ int) *types.IndexTask {
		return &types.IndexTask{
			ID:      utils.GenUniqIDStr(),
			JobID:   jobID,
			DocName: name,
			Status:  types.TASK_STATUS_QUEUED,
		}
	})

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().IndexJobStore().Create(ctx, job); err != nil {
			return errors.New("DocmuncherLogic.Upload.IndexJobStore.Create", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().IndexTaskStore().BatchCreate(ctx, tasks); err != nil {
			return errors.New("DocmuncherLogic.Upload.IndexTaskStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the DB row is the source of truth, a failed flag write is not fatal
	if err := l.core.Cache().SetEx(l.ctx, runningFlagKey(workspaceID), "1", runningFlagTTL); err != nil {
		slog.Warn("failed to set running flag", slog.String("workspace", workspaceID), slog.Any("error", err))
	}
	l.core.Metrics().IndexJobInc(string(types.JOB_STATUS_IN_PROGRESS))
	l.refreshRunningGauge(workspaceID)

	detail := buildJobDetail(job, lo.Map(tasks, func(t *types.IndexTask, _ int) types.IndexTask {
		return *t
	}))
	return &detail, nil
}

func buildJobDetail(job types.IndexJob, tasks []types.IndexTask) types.IndexJobDetail {
	indexed, total := types.CountIndexedDocs(tasks)
	if tasks == nil {
		tasks = []types.IndexTask{}
	}
	return types.IndexJobDetail{
		IndexJob:    job,
		Tasks:       tasks,
		DocsIndexed: indexed,
		DocsTotal:   total,
	}
}

func (l *DocmuncherLogic) GetJobStatus(workspaceID, jobID string) (*types.IndexJobDetail, error) {
	job, err := l.core.Store().IndexJobStore().Get(l.ctx, workspaceID, jobID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocmuncherLogic.GetJobStatus.IndexJobStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if job == nil {
		return nil, errors.New("DocmuncherLogic.GetJobStatus.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	tasks, err := l.core.Store().IndexTaskStore().ListByJob(l.ctx, jobID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocmuncherLogic.GetJobStatus.ListByJob", i18n.ERROR_INTERNAL, err)
	}

	detail := buildJobDetail(*job, tasks)
	return &detail, nil
}

type JobListResult struct {
	List  []types.IndexJobDetail `json:"list"`
	Total int64                  `json:"total"`
}

// ListJobs returns job details newest first, each with its task rows so the
// console can expand a row without a second request.
func (l *DocmuncherLogic) ListJobs(opts types.ListIndexJobOptions, page, pageSize uint64) (*JobListResult, error) {
	jobs, err := l.core.Store().IndexJobStore().List(l.ctx, opts, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocmuncherLogic.ListJobs.IndexJobStore.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().IndexJobStore().Total(l.ctx, opts)
	if err != nil {
		return nil, errors.New("DocmuncherLogic.ListJobs.IndexJobStore.Total", i18n.ERROR_INTERNAL, err)
	}

	result := &JobListResult{
		List:  make([]types.IndexJobDetail, 0, len(jobs)),
		Total: total,
	}
	if len(jobs) == 0 {
		return result, nil
	}

	jobIDs := lo.Map(jobs, func(job types.IndexJob, _ int) string {
		return job.ID
	})
	allTasks, err := l.core.Store().IndexTaskStore().ListByJobs(l.ctx, jobIDs)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocmuncherLogic.ListJobs.ListByJobs", i18n.ERROR_INTERNAL, err)
	}
	tasksByJob := lo.GroupBy(allTasks, func(task types.IndexTask) string {
		return task.JobID
	})

	for _, job := range jobs {
		result.List = append(result.List, buildJobDetail(job, tasksByJob[job.ID]))
	}
	return result, nil
}

// IsJobRunning backs the console's poll target. The redis flag short-circuits
// the common case; on a miss the database decides.
func (l *DocmuncherLogic) IsJobRunning(workspaceID string) (bool, error) {
	flag, err := l.core.Cache().Get(l.ctx, runningFlagKey(workspaceID))
	if err == nil && flag == "1" {
		return true, nil
	}

	running, err := l.core.Store().IndexJobStore().AnyRunning(l.ctx, workspaceID)
	if err != nil {
		return false, errors.New("DocmuncherLogic.IsJobRunning.AnyRunning", i18n.ERROR_INTERNAL, err)
	}
	return running, nil
}

// ReportTaskResult is the internal callback muncher workers hit when a task
// changes state. Terminal reports re-derive the parent status; when the parent
// settles the workspace running flag is dropped if nothing else runs.
func (l *DocmuncherLogic) ReportTaskResult(taskID string, status types.TaskStatus, errorTrace string) (*types.IndexJobDetail, error) {
	task, err := l.core.Store().IndexTaskStore().Get(l.ctx, taskID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocmuncherLogic.ReportTaskResult.IndexTaskStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if task == nil {
		return nil, errors.New("DocmuncherLogic.ReportTaskResult.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	var finishedAt int64
	if status.Terminal() {
		finishedAt = time.Now().Unix()
		l.core.Metrics().IndexTaskObserve(string(status), float64(finishedAt-task.CreatedAt))
	}
	if err := l.core.Store().IndexTaskStore().UpdateStatus(l.ctx, taskID, status, errorTrace, finishedAt); err != nil {
		return nil, errors.New("DocmuncherLogic.ReportTaskResult.UpdateStatus", i18n.ERROR_INTERNAL, err)
	}

	job, err := l.core.Store().IndexJobStore().GetByID(l.ctx, task.JobID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocmuncherLogic.ReportTaskResult.IndexJobStore.GetByID", i18n.ERROR_INTERNAL, err)
	}
	if job == nil || err == sql.ErrNoRows {
		return nil, errors.New("DocmuncherLogic.ReportTaskResult.job.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	return l.settleJob(*job)
}

// settleJob re-derives the parent status from its tasks and clears the
// workspace running flag once no job is left in progress.
func (l *DocmuncherLogic) settleJob(job types.IndexJob) (*types.IndexJobDetail, error) {
	tasks, err := l.core.Store().IndexTaskStore().ListByJob(l.ctx, job.ID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocmuncherLogic.settleJob.ListByJob", i18n.ERROR_INTERNAL, err)
	}

	next := types.RollupJobStatus(tasks)
	if next != job.OverallStatus {
		var (
			finishedAt int64
			errorTrace string
		)
		if next.Terminal() {
			finishedAt = time.Now().Unix()
			if next == types.JOB_STATUS_FAILED {
				for _, t := range tasks {
					if t.Status == types.TASK_STATUS_FAILED && t.ErrorTrace != "" {
						errorTrace = t.ErrorTrace
						break
					}
				}
			}
		}
		if err := l.core.Store().IndexJobStore().UpdateStatus(l.ctx, job.ID, next, errorTrace, finishedAt); err != nil {
			return nil, errors.New("DocmuncherLogic.settleJob.UpdateStatus", i18n.ERROR_INTERNAL, err)
		}
		job.OverallStatus = next
		job.ErrorTrace = errorTrace
		job.FinishedAt = finishedAt
		l.core.Metrics().IndexJobInc(string(next))
	}

	if next.Terminal() {
		if n := l.refreshRunningGauge(job.WorkspaceID); n == 0 {
			_ = l.core.Cache().Del(l.ctx, runningFlagKey(job.WorkspaceID))
		}
	}

	detail := buildJobDetail(job, tasks)
	return &detail, nil
}

// refreshRunningGauge publishes how many jobs the workspace still has in
// progress and returns that count. -1 means the count could not be read.
func (l *DocmuncherLogic) refreshRunningGauge(workspaceID string) int64 {
	inProgress := types.JOB_STATUS_IN_PROGRESS
	n, err := l.core.Store().IndexJobStore().Total(l.ctx, types.ListIndexJobOptions{
		WorkspaceID: workspaceID,
		Status:      &inProgress,
	})
	if err != nil {
		slog.Warn("failed to count running jobs", slog.String("workspace", workspaceID), slog.Any("error", err))
		return -1
	}
	l.core.Metrics().SetRunningJobs(workspaceID, float64(n))
	return n
}
