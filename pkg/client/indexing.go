package client

import (
	"bytes"
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/aaq-platform/aaq-admin/pkg/types"
)

// RowStatus is the job-level vocabulary shown in the status table. It is a
// separate enumeration from the per-task statuses on purpose; the two are
// color-coordinated but never interchanged.
type RowStatus string

const (
	ROW_STATUS_DONE    RowStatus = "Done"
	ROW_STATUS_ONGOING RowStatus = "Ongoing"
	ROW_STATUS_ERROR   RowStatus = "Error"
)

// MapStatus folds any backend overall_status into exactly one row status.
// Unknown and empty values count as ongoing.
func MapStatus(status types.JobStatus) RowStatus {
	switch status {
	case types.JOB_STATUS_SUCCESS:
		return ROW_STATUS_DONE
	case types.JOB_STATUS_FAILED:
		return ROW_STATUS_ERROR
	default:
		return ROW_STATUS_ONGOING
	}
}

// DatePlaceholder is rendered for timestamps the backend has not set yet.
const DatePlaceholder = "—"

const dateLayout = "2006-01-02 15:04"

// FormatTimestamp renders a unix timestamp for the status table. Zero
// timestamps never reach the formatter; they render as the placeholder glyph.
func FormatTimestamp(ts int64, loc *time.Location) string {
	if ts <= 0 {
		return DatePlaceholder
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(ts, 0).In(loc).Format(dateLayout)
}

// JobRow is one parent row of the indexing status table.
type JobRow struct {
	JobID       string
	FileName    string
	Status      RowStatus
	DocsIndexed string
	ErrorTrace  string
	CreatedAt   string
	FinishedAt  string
	Tasks       []types.IndexTask

	createdAtUnix int64
	expanded      bool
}

// Expandable reports whether the row carries a toggle. Single-task jobs have
// nothing to expand into.
func (r *JobRow) Expandable() bool {
	return len(r.Tasks) > 1
}

func (r *JobRow) Expanded() bool {
	return r.expanded
}

// Toggle flips the row between collapsed and expanded. Non-expandable rows
// ignore the click and stay collapsed.
func (r *JobRow) Toggle() bool {
	if !r.Expandable() {
		return false
	}
	r.expanded = !r.expanded
	return r.expanded
}

func buildJobRow(detail types.IndexJobDetail, loc *time.Location) JobRow {
	indexed, total := types.CountIndexedDocs(detail.Tasks)
	return JobRow{
		JobID:         detail.ID,
		FileName:      detail.ParentFileName,
		Status:        MapStatus(detail.OverallStatus),
		DocsIndexed:   formatDocsIndexed(indexed, total),
		ErrorTrace:    detail.ErrorTrace,
		CreatedAt:     FormatTimestamp(detail.CreatedAt, loc),
		FinishedAt:    FormatTimestamp(detail.FinishedAt, loc),
		Tasks:         detail.Tasks,
		createdAtUnix: detail.CreatedAt,
	}
}

type jobListPayload struct {
	List  []types.IndexJobDetail `json:"list"`
	Total int64                  `json:"total"`
}

// FetchIndexingStatus lists the workspace's jobs as table rows, newest upload
// first. Equal timestamps keep the backend's relative order.
func (c *Client) FetchIndexingStatus(ctx context.Context, loc *time.Location) ([]JobRow, error) {
	var payload jobListPayload
	if err := c.getJSON(ctx, "/api/v1/docmuncher/status/data", nil, &payload); err != nil {
		return nil, err
	}

	rows := make([]JobRow, 0, len(payload.List))
	for _, detail := range payload.List {
		rows = append(rows, buildJobRow(detail, loc))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].createdAtUnix > rows[j].createdAtUnix
	})
	return rows, nil
}

type jobRunningPayload struct {
	JobRunning bool `json:"job_running"`
}

// IsJobRunning is the boolean poll target behind the status view.
func (c *Client) IsJobRunning(ctx context.Context) (bool, error) {
	var payload jobRunningPayload
	if err := c.getJSON(ctx, "/api/v1/docmuncher/status/is_job_running", nil, &payload); err != nil {
		return false, err
	}
	return payload.JobRunning, nil
}

// UploadDocs submits a PDF or ZIP batch for ingestion and returns the created
// job with its task fan-out.
func (c *Client) UploadDocs(ctx context.Context, filename string, content []byte) (*types.IndexJobDetail, error) {
	var detail types.IndexJobDetail
	if err := c.postFile(ctx, "/api/v1/docmuncher/upload", filename, bytes.NewReader(content), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetJobStatus fetches one job with its task rows.
func (c *Client) GetJobStatus(ctx context.Context, jobID string) (*types.IndexJobDetail, error) {
	var detail types.IndexJobDetail
	if err := c.getJSON(ctx, "/api/v1/docmuncher/status/"+jobID, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func formatDocsIndexed(indexed, total int) string {
	return strconv.Itoa(indexed) + " of " + strconv.Itoa(total)
}
