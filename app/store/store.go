package store

import (
	"context"

	"github.com/aaq-platform/aaq-admin/pkg/sqlstore"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type ContentStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Content) error
	BatchCreate(ctx context.Context, datas []*types.Content) error
	Get(ctx context.Context, workspaceID, id string) (*types.Content, error)
	Update(ctx context.Context, workspaceID, id string, data types.UpdateContentArgs) error
	SetArchived(ctx context.Context, workspaceID, id string, archived bool) error
	SetValidated(ctx context.Context, workspaceID, id string, validated bool) error
	AddVote(ctx context.Context, workspaceID, id string, positive bool) error
	Delete(ctx context.Context, workspaceID, id string) error
	List(ctx context.Context, opts types.ListContentOptions, skip, limit uint64) ([]types.Content, error)
	Total(ctx context.Context, opts types.ListContentOptions) (int64, error)
	CountUnvalidated(ctx context.Context, workspaceID string) (int64, error)
	NextUnvalidated(ctx context.Context, workspaceID string) (*types.Content, error)
	MaxDisplayNumber(ctx context.Context, workspaceID string) (int64, error)
}

type ContentTagStore interface {
	sqlstore.SqlCommons
	SetContentTags(ctx context.Context, contentID string, tagIDs []string) error
	ListByContents(ctx context.Context, contentIDs []string) ([]types.ContentTag, error)
	DeleteByTag(ctx context.Context, tagID string) error
	DeleteByContent(ctx context.Context, contentID string) error
	CountByTags(ctx context.Context, workspaceID string) (map[string]int64, error)
}

type TagStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Tag) error
	Get(ctx context.Context, workspaceID, id string) (*types.Tag, error)
	GetByName(ctx context.Context, workspaceID, name string) (*types.Tag, error)
	Delete(ctx context.Context, workspaceID, id string) error
	List(ctx context.Context, opts types.ListTagOptions, page, pageSize uint64) ([]types.Tag, error)
	Total(ctx context.Context, opts types.ListTagOptions) (int64, error)
}

type UserStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.User) error
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetByUsername(ctx context.Context, username string) (*types.User, error)
	Exist(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, id string, data types.UpdateUserArgs) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, opts types.ListUserOptions, page, pageSize uint64) ([]types.User, error)
	Total(ctx context.Context, opts types.ListUserOptions) (int64, error)
}

type WorkspaceStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Workspace) error
	Get(ctx context.Context, id string) (*types.Workspace, error)
	Update(ctx context.Context, id string, data types.UpdateWorkspaceArgs) error
	List(ctx context.Context, page, pageSize uint64) ([]types.Workspace, error)
	Total(ctx context.Context) (int64, error)
}

type UserWorkspaceStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.UserWorkspace) error
	Get(ctx context.Context, userID, workspaceID string) (*types.UserWorkspace, error)
	SetRole(ctx context.Context, userID, workspaceID, role string) error
	SetDefault(ctx context.Context, userID, workspaceID string) error
	Delete(ctx context.Context, userID, workspaceID string) error
	ListUserWorkspaces(ctx context.Context, userID string) ([]types.UserWorkspaceDetail, error)
	ListWorkspaceUsers(ctx context.Context, workspaceID string) ([]types.UserWorkspace, error)
}

type IndexJobStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.IndexJob) error
	Get(ctx context.Context, workspaceID, id string) (*types.IndexJob, error)
	GetByID(ctx context.Context, id string) (*types.IndexJob, error)
	List(ctx context.Context, opts types.ListIndexJobOptions, page, pageSize uint64) ([]types.IndexJob, error)
	Total(ctx context.Context, opts types.ListIndexJobOptions) (int64, error)
	UpdateStatus(ctx context.Context, id string, status types.JobStatus, errorTrace string, finishedAt int64) error
	AnyRunning(ctx context.Context, workspaceID string) (bool, error)
	DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error)
}

type IndexTaskStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []*types.IndexTask) error
	Get(ctx context.Context, id string) (*types.IndexTask, error)
	ListByJob(ctx context.Context, jobID string) ([]types.IndexTask, error)
	ListByJobs(ctx context.Context, jobIDs []string) ([]types.IndexTask, error)
	UpdateStatus(ctx context.Context, id string, status types.TaskStatus, errorTrace string, finishedAt int64) error
	FailStale(ctx context.Context, updatedBefore int64, errorTrace string) (int64, error)
}
