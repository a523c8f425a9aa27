package types

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type User struct {
	ID            string `json:"user_id" db:"id"`
	Username      string `json:"username" db:"username"`
	PasswordHash  string `json:"-" db:"password_hash"`
	IsAdmin       bool   `json:"is_admin" db:"is_admin"`
	ContentQuota  int64  `json:"content_quota" db:"content_quota"`
	APIDailyQuota int64  `json:"api_daily_quota" db:"api_daily_quota"`
	CreatedAt     int64  `json:"created_datetime_utc" db:"created_at"`
	UpdatedAt     int64  `json:"updated_datetime_utc" db:"updated_at"`
}

// UserWorkspace relates a user to a workspace with a role.
type UserWorkspace struct {
	ID          int64  `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`
	Role        string `json:"user_role" db:"role"`
	IsDefault   bool   `json:"default_workspace" db:"is_default"`
	CreatedAt   int64  `json:"created_datetime_utc" db:"created_at"`
}

// UserWorkspaceDetail joins the association with the workspace row, the shape
// returned inside a user's `user_workspaces` list.
type UserWorkspaceDetail struct {
	UserID        string `json:"user_id" db:"user_id"`
	WorkspaceID   string `json:"workspace_id" db:"workspace_id"`
	WorkspaceName string `json:"workspace_name" db:"workspace_name"`
	Role          string `json:"user_role" db:"role"`
	IsDefault     bool   `json:"default_workspace" db:"is_default"`
}

type UserWithWorkspaces struct {
	User
	Workspaces []UserWorkspaceDetail `json:"user_workspaces"`
}

type UpdateUserArgs struct {
	Username      string
	IsAdmin       *bool
	ContentQuota  *int64
	APIDailyQuota *int64
}

type ListUserOptions struct {
	WorkspaceID string
	Keywords    string
}

func (opts ListUserOptions) Apply(query *sq.SelectBuilder) {
	if opts.WorkspaceID != "" {
		*query = query.InnerJoin(fmt.Sprintf("%s AS uw ON uw.user_id = %s.id", TABLE_USER_WORKSPACE.Name(), TABLE_USER.Name())).
			Where(sq.Eq{"uw.workspace_id": opts.WorkspaceID})
	}
	if opts.Keywords != "" {
		*query = query.Where(sq.ILike{"username": "%" + opts.Keywords + "%"})
	}
}
