package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollupJobStatus(t *testing.T) {
	t.Run("empty task list stays in progress", func(t *testing.T) {
		assert.Equal(t, JOB_STATUS_IN_PROGRESS, RollupJobStatus(nil))
	})

	t.Run("any outstanding task keeps the job in progress", func(t *testing.T) {
		tasks := []IndexTask{
			{Status: TASK_STATUS_SUCCESS},
			{Status: TASK_STATUS_IN_PROGRESS},
			{Status: TASK_STATUS_FAILED},
		}
		assert.Equal(t, JOB_STATUS_IN_PROGRESS, RollupJobStatus(tasks))

		tasks[1].Status = TASK_STATUS_QUEUED
		assert.Equal(t, JOB_STATUS_IN_PROGRESS, RollupJobStatus(tasks))
	})

	t.Run("one failed task fails the batch", func(t *testing.T) {
		tasks := []IndexTask{
			{Status: TASK_STATUS_SUCCESS},
			{Status: TASK_STATUS_FAILED},
			{Status: TASK_STATUS_SUCCESS},
		}
		assert.Equal(t, JOB_STATUS_FAILED, RollupJobStatus(tasks))
	})

	t.Run("all success settles the batch", func(t *testing.T) {
		tasks := []IndexTask{
			{Status: TASK_STATUS_SUCCESS},
			{Status: TASK_STATUS_SUCCESS},
		}
		assert.Equal(t, JOB_STATUS_SUCCESS, RollupJobStatus(tasks))
	})
}

func TestCountIndexedDocs(t *testing.T) {
	tasks := []IndexTask{
		{Status: TASK_STATUS_SUCCESS},
		{Status: TASK_STATUS_FAILED},
		{Status: TASK_STATUS_SUCCESS},
	}

	indexed, total := CountIndexedDocs(tasks)
	assert.Equal(t, 2, indexed)
	assert.Equal(t, 3, total)

	indexed, total = CountIndexedDocs(nil)
	assert.Equal(t, 0, indexed)
	assert.Equal(t, 0, total)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, TASK_STATUS_SUCCESS.Terminal())
	assert.True(t, TASK_STATUS_FAILED.Terminal())
	assert.False(t, TASK_STATUS_QUEUED.Terminal())
	assert.False(t, TASK_STATUS_IN_PROGRESS.Terminal())

	assert.True(t, JOB_STATUS_SUCCESS.Terminal())
	assert.True(t, JOB_STATUS_FAILED.Terminal())
	assert.False(t, JOB_STATUS_IN_PROGRESS.Terminal())
}
