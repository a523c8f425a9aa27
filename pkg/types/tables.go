package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "aaq_"

const (
	TABLE_CONTENT        = TableName("content")
	TABLE_CONTENT_TAG    = TableName("content_tag")
	TABLE_TAG            = TableName("tag")
	TABLE_USER           = TableName("user")
	TABLE_WORKSPACE      = TableName("workspace")
	TABLE_USER_WORKSPACE = TableName("user_workspace")
	TABLE_INDEX_JOB      = TableName("index_job")
	TABLE_INDEX_TASK     = TableName("index_task")
)
