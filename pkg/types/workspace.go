package types

import (
	sq "github.com/Masterminds/squirrel"
)

type Workspace struct {
	ID            string `json:"workspace_id" db:"id"`
	Name          string `json:"workspace_name" db:"name"`
	ContentQuota  int64  `json:"content_quota" db:"content_quota"`
	APIDailyQuota int64  `json:"api_daily_quota" db:"api_daily_quota"`
	CreatedAt     int64  `json:"created_datetime_utc" db:"created_at"`
	UpdatedAt     int64  `json:"updated_datetime_utc" db:"updated_at"`
}

type UpdateWorkspaceArgs struct {
	Name          string
	ContentQuota  *int64
	APIDailyQuota *int64
}

type ListWorkspaceOptions struct {
	UserID string
}

func (opts ListWorkspaceOptions) Apply(query *sq.SelectBuilder) {
	if opts.UserID != "" {
		*query = query.Where(sq.Eq{"uw.user_id": opts.UserID})
	}
}
