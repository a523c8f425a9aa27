package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// ContentMetadata is an opaque key-value mapping attached to a content card.
// Stored as jsonb, never interpreted by the service.
type ContentMetadata json.RawMessage

func (m ContentMetadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return []byte(m), nil
}

func (m *ContentMetadata) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		*m = append((*m)[0:0], v...)
		return nil
	case string:
		*m = ContentMetadata(v)
		return nil
	case nil:
		*m = nil
		return nil
	default:
		return fmt.Errorf("unsupported scan type for ContentMetadata: %T", value)
	}
}

func (m ContentMetadata) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return []byte(m), nil
}

func (m *ContentMetadata) UnmarshalJSON(data []byte) error {
	*m = append((*m)[0:0], data...)
	return nil
}

// Content is a question-answer card owned by a workspace.
type Content struct {
	ID            string          `json:"content_id" db:"id"`
	WorkspaceID   string          `json:"workspace_id" db:"workspace_id"`
	Title         string          `json:"content_title" db:"title"`
	Text          string          `json:"content_text" db:"text"`
	Metadata      ContentMetadata `json:"content_metadata" db:"metadata"`
	RelatedIDs    pq.StringArray  `json:"related_contents_id" db:"related_ids"`
	PositiveVotes int64           `json:"positive_votes" db:"positive_votes"`
	NegativeVotes int64           `json:"negative_votes" db:"negative_votes"`
	DisplayNumber int64           `json:"display_number" db:"display_number"`
	IsArchived    bool            `json:"is_archived" db:"is_archived"`
	IsValidated   bool            `json:"is_validated" db:"is_validated"`
	UserID        string          `json:"user_id" db:"user_id"`
	CreatedAt     int64           `json:"created_datetime_utc" db:"created_at"`
	UpdatedAt     int64           `json:"updated_datetime_utc" db:"updated_at"`
}

// ContentWithTags is the list/detail response shape: the card plus its tag id set.
type ContentWithTags struct {
	Content
	Tags []string `json:"content_tags"`
}

type UpdateContentArgs struct {
	Title      string
	Text       string
	Metadata   ContentMetadata
	RelatedIDs []string
	Tags       []string
}

type ListContentOptions struct {
	WorkspaceID string
	Keywords    string
	Archived    *bool
	Validated   *bool
	TagID       string
}

func (opts ListContentOptions) Apply(query *sq.SelectBuilder) {
	if opts.WorkspaceID != "" {
		*query = query.Where(sq.Eq{"workspace_id": opts.WorkspaceID})
	}
	if opts.Keywords != "" {
		*query = query.Where(sq.Or{
			sq.ILike{"title": "%" + opts.Keywords + "%"},
			sq.ILike{"text": "%" + opts.Keywords + "%"},
		})
	}
	if opts.Archived != nil {
		*query = query.Where(sq.Eq{"is_archived": *opts.Archived})
	}
	if opts.Validated != nil {
		*query = query.Where(sq.Eq{"is_validated": *opts.Validated})
	}
	if opts.TagID != "" {
		*query = query.Where(sq.Expr("id IN (SELECT content_id FROM "+TABLE_CONTENT_TAG.Name()+" WHERE tag_id = ?)", opts.TagID))
	}
}
