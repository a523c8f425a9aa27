package types

import (
	sq "github.com/Masterminds/squirrel"
)

// Tag names are unique per workspace, case-insensitively.
type Tag struct {
	ID          string `json:"tag_id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`
	Name        string `json:"tag_name" db:"name"`
	CreatedAt   int64  `json:"created_datetime_utc" db:"created_at"`
}

// ContentTag is one row of the content/tag join table. Deleting a tag removes
// its rows here, which is how deletion cascades out of every card's tag set.
type ContentTag struct {
	ID        int64  `json:"id" db:"id"`
	ContentID string `json:"content_id" db:"content_id"`
	TagID     string `json:"tag_id" db:"tag_id"`
}

type ListTagOptions struct {
	WorkspaceID string
	Name        string
}

func (opts ListTagOptions) Apply(query *sq.SelectBuilder) {
	if opts.WorkspaceID != "" {
		*query = query.Where(sq.Eq{"workspace_id": opts.WorkspaceID})
	}
	if opts.Name != "" {
		*query = query.Where(sq.Expr("LOWER(name) = LOWER(?)", opts.Name))
	}
}
