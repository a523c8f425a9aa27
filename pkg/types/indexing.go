package types

import (
	sq "github.com/Masterminds/squirrel"
)

// TaskStatus is the per-document status vocabulary reported by muncher
// workers. It is intentionally distinct from JobStatus: the two enumerations
// are color-coordinated on the admin surface but never interchanged.
type TaskStatus string

const (
	TASK_STATUS_QUEUED      TaskStatus = "Queued"
	TASK_STATUS_IN_PROGRESS TaskStatus = "In progress"
	TASK_STATUS_SUCCESS     TaskStatus = "Success"
	TASK_STATUS_FAILED      TaskStatus = "Failed"
)

func (s TaskStatus) Terminal() bool {
	return s == TASK_STATUS_SUCCESS || s == TASK_STATUS_FAILED
}

// JobStatus is the parent-upload status vocabulary.
type JobStatus string

const (
	JOB_STATUS_IN_PROGRESS JobStatus = "In progress"
	JOB_STATUS_SUCCESS     JobStatus = "Success"
	JOB_STATUS_FAILED      JobStatus = "Failed"
)

func (s JobStatus) Terminal() bool {
	return s == JOB_STATUS_SUCCESS || s == JOB_STATUS_FAILED
}

// IndexJob is one upload batch: a single PDF, or a ZIP fanned out to one task
// per contained document.
type IndexJob struct {
	ID             string    `json:"job_id" db:"id"`
	WorkspaceID    string    `json:"workspace_id" db:"workspace_id"`
	UserID         string    `json:"user_id" db:"user_id"`
	ParentFileName string    `json:"parent_file_name" db:"parent_file_name"`
	FileURL        string    `json:"file_url" db:"file_url"`
	OverallStatus  JobStatus `json:"overall_status" db:"overall_status"`
	ErrorTrace     string    `json:"error_trace" db:"error_trace"`
	CreatedAt      int64     `json:"created_datetime_utc" db:"created_at"`
	FinishedAt     int64     `json:"finished_datetime_utc" db:"finished_at"`
}

type IndexTask struct {
	ID         string     `json:"task_id" db:"id"`
	JobID      string     `json:"job_id" db:"job_id"`
	DocName    string     `json:"doc_name" db:"doc_name"`
	Status     TaskStatus `json:"task_status" db:"status"`
	ErrorTrace string     `json:"error_trace" db:"error_trace"`
	CreatedAt  int64      `json:"created_datetime_utc" db:"created_at"`
	UpdatedAt  int64      `json:"updated_datetime_utc" db:"updated_at"`
	FinishedAt int64      `json:"finished_datetime_utc" db:"finished_at"`
}

// IndexJobDetail is the status/data response shape: the parent row with its
// child tasks and the indexed-of-total counters.
type IndexJobDetail struct {
	IndexJob
	Tasks       []IndexTask `json:"tasks"`
	DocsIndexed int         `json:"docs_indexed"`
	DocsTotal   int         `json:"docs_total"`
}

// RollupJobStatus derives the parent status from its tasks: Failed wins once
// every task settled, Success requires all tasks successful, anything with an
// outstanding task stays in progress. A job with no tasks never settles here;
// the process loop fails it on timeout instead.
func RollupJobStatus(tasks []IndexTask) JobStatus {
	if len(tasks) == 0 {
		return JOB_STATUS_IN_PROGRESS
	}
	failed := false
	for _, t := range tasks {
		if !t.Status.Terminal() {
			return JOB_STATUS_IN_PROGRESS
		}
		if t.Status == TASK_STATUS_FAILED {
			failed = true
		}
	}
	if failed {
		return JOB_STATUS_FAILED
	}
	return JOB_STATUS_SUCCESS
}

// CountIndexedDocs counts successfully indexed tasks out of the batch total.
func CountIndexedDocs(tasks []IndexTask) (indexed, total int) {
	total = len(tasks)
	for _, t := range tasks {
		if t.Status == TASK_STATUS_SUCCESS {
			indexed++
		}
	}
	return indexed, total
}

type ListIndexJobOptions struct {
	WorkspaceID string
	Status      *JobStatus
	CreatedLt   int64
}

func (opts ListIndexJobOptions) Apply(query *sq.SelectBuilder) {
	if opts.WorkspaceID != "" {
		*query = query.Where(sq.Eq{"workspace_id": opts.WorkspaceID})
	}
	if opts.Status != nil {
		*query = query.Where(sq.Eq{"overall_status": *opts.Status})
	}
	if opts.CreatedLt > 0 {
		*query = query.Where(sq.Lt{"created_at": opts.CreatedLt})
	}
}
