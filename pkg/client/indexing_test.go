package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaq-platform/aaq-admin/pkg/types"
)

func envelope(data interface{}) []byte {
	buf, _ := json.Marshal(map[string]interface{}{
		"meta": map[string]interface{}{"code": 0, "message": "", "request_id": "test"},
		"data": data,
	})
	return buf
}

func TestMapStatusTotality(t *testing.T) {
	inputs := []types.JobStatus{
		types.JOB_STATUS_SUCCESS,
		types.JOB_STATUS_FAILED,
		types.JOB_STATUS_IN_PROGRESS,
		types.JobStatus(""),
		types.JobStatus("something-unknown"),
	}

	for _, in := range inputs {
		out := MapStatus(in)
		assert.Contains(t, []RowStatus{ROW_STATUS_DONE, ROW_STATUS_ERROR, ROW_STATUS_ONGOING}, out,
			"input %q", in)
	}

	assert.Equal(t, ROW_STATUS_DONE, MapStatus(types.JOB_STATUS_SUCCESS))
	assert.Equal(t, ROW_STATUS_ERROR, MapStatus(types.JOB_STATUS_FAILED))
	assert.Equal(t, ROW_STATUS_ONGOING, MapStatus(types.JOB_STATUS_IN_PROGRESS))
	assert.Equal(t, ROW_STATUS_ONGOING, MapStatus(types.JobStatus("")))
}

func TestFormatTimestampPlaceholder(t *testing.T) {
	assert.Equal(t, DatePlaceholder, FormatTimestamp(0, time.UTC))
	assert.Equal(t, DatePlaceholder, FormatTimestamp(-1, time.UTC))

	formatted := FormatTimestamp(time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC).Unix(), time.UTC)
	assert.Equal(t, "2025-03-01 12:30", formatted)
}

func TestFetchIndexingStatusSorting(t *testing.T) {
	jobs := []types.IndexJobDetail{
		{IndexJob: types.IndexJob{ID: "j-old", ParentFileName: "old.pdf", OverallStatus: types.JOB_STATUS_SUCCESS, CreatedAt: 100}},
		{IndexJob: types.IndexJob{ID: "j-tie-a", ParentFileName: "tie-a.pdf", OverallStatus: types.JOB_STATUS_IN_PROGRESS, CreatedAt: 200}},
		{IndexJob: types.IndexJob{ID: "j-tie-b", ParentFileName: "tie-b.pdf", OverallStatus: types.JOB_STATUS_IN_PROGRESS, CreatedAt: 200}},
		{IndexJob: types.IndexJob{ID: "j-new", ParentFileName: "new.pdf", OverallStatus: types.JOB_STATUS_FAILED, CreatedAt: 300}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/docmuncher/status/data", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write(envelope(map[string]interface{}{"list": jobs, "total": len(jobs)}))
	}))
	defer server.Close()

	rows, err := New(server.URL, "test-token").FetchIndexingStatus(context.Background(), time.UTC)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "j-new", rows[0].JobID)
	// equal timestamps keep backend order
	assert.Equal(t, "j-tie-a", rows[1].JobID)
	assert.Equal(t, "j-tie-b", rows[2].JobID)
	assert.Equal(t, "j-old", rows[3].JobID)
}

func TestFetchIndexingStatusRowMapping(t *testing.T) {
	jobs := []types.IndexJobDetail{
		{
			IndexJob: types.IndexJob{
				ID:             "j-1",
				ParentFileName: "batch.zip",
				OverallStatus:  types.JOB_STATUS_FAILED,
				ErrorTrace:     "page 4 unreadable",
				CreatedAt:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC).Unix(),
				// finished_at not yet written
			},
			Tasks: []types.IndexTask{
				{ID: "t-1", DocName: "a.pdf", Status: types.TASK_STATUS_SUCCESS},
				{ID: "t-2", DocName: "b.pdf", Status: types.TASK_STATUS_FAILED},
				{ID: "t-3", DocName: "c.pdf", Status: types.TASK_STATUS_SUCCESS},
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope(map[string]interface{}{"list": jobs, "total": 1}))
	}))
	defer server.Close()

	rows, err := New(server.URL, "test-token").FetchIndexingStatus(context.Background(), time.UTC)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "batch.zip", row.FileName)
	assert.Equal(t, ROW_STATUS_ERROR, row.Status)
	assert.Equal(t, "2 of 3", row.DocsIndexed)
	assert.Equal(t, "page 4 unreadable", row.ErrorTrace)
	assert.Equal(t, "2025-03-01 09:00", row.CreatedAt)
	assert.Equal(t, DatePlaceholder, row.FinishedAt)
	assert.Len(t, row.Tasks, 3)
}

func TestFetchIndexingStatusFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	_, err := New(server.URL, "test-token").FetchIndexingStatus(context.Background(), time.UTC)
	require.Error(t, err)

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestJobRowToggle(t *testing.T) {
	t.Run("single task rows have no affordance", func(t *testing.T) {
		row := JobRow{Tasks: []types.IndexTask{{ID: "t-1"}}}
		assert.False(t, row.Expandable())
		assert.False(t, row.Toggle())
		assert.False(t, row.Expanded())
	})

	t.Run("multi task rows toggle starting collapsed", func(t *testing.T) {
		row := JobRow{Tasks: []types.IndexTask{{ID: "t-1"}, {ID: "t-2"}}}
		assert.True(t, row.Expandable())
		assert.False(t, row.Expanded())

		assert.True(t, row.Toggle())
		assert.True(t, row.Expanded())
		assert.False(t, row.Toggle())
		assert.False(t, row.Expanded())
		assert.True(t, row.Toggle())
		assert.True(t, row.Expanded())
	})
}

func TestIsJobRunning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/docmuncher/status/is_job_running", r.URL.Path)
		w.Write(envelope(map[string]bool{"job_running": true}))
	}))
	defer server.Close()

	running, err := New(server.URL, "test-token").IsJobRunning(context.Background())
	require.NoError(t, err)
	assert.True(t, running)
}
