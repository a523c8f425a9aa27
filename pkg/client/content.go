package client

import (
	"bytes"
	"context"
	"net/url"
	"strconv"

	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type ContentListResult struct {
	List  []types.ContentWithTags `json:"list"`
	Total int64                   `json:"total"`
}

type ListContentsOptions struct {
	Keywords  string
	Archived  *bool
	Validated *bool
	TagID     string
	Skip      uint64
	Limit     uint64
}

func (c *Client) ListContents(ctx context.Context, opts ListContentsOptions) (*ContentListResult, error) {
	query := url.Values{}
	if opts.Keywords != "" {
		query.Set("keywords", opts.Keywords)
	}
	if opts.Archived != nil {
		query.Set("is_archived", strconv.FormatBool(*opts.Archived))
	}
	if opts.Validated != nil {
		query.Set("is_validated", strconv.FormatBool(*opts.Validated))
	}
	if opts.TagID != "" {
		query.Set("tag_id", opts.TagID)
	}
	if opts.Skip > 0 {
		query.Set("skip", strconv.FormatUint(opts.Skip, 10))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.FormatUint(opts.Limit, 10))
	}

	var result ContentListResult
	if err := c.getJSON(ctx, "/api/v1/content/list", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetContent(ctx context.Context, contentID string) (*types.ContentWithTags, error) {
	var content types.ContentWithTags
	if err := c.getJSON(ctx, "/api/v1/content/"+contentID, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

type ContentDraft struct {
	Title      string                `json:"content_title"`
	Text       string                `json:"content_text"`
	Metadata   types.ContentMetadata `json:"content_metadata,omitempty"`
	RelatedIDs []string              `json:"related_contents_id,omitempty"`
	Tags       []string              `json:"content_tags,omitempty"`
}

func (c *Client) CreateContent(ctx context.Context, draft ContentDraft) (*types.ContentWithTags, error) {
	var content types.ContentWithTags
	if err := c.postJSON(ctx, "/api/v1/content", draft, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *Client) UpdateContent(ctx context.Context, contentID string, draft ContentDraft) error {
	return c.putJSON(ctx, "/api/v1/content/"+contentID, draft, nil)
}

func (c *Client) DeleteContent(ctx context.Context, contentID string) error {
	return c.delete(ctx, "/api/v1/content/"+contentID)
}

func (c *Client) SetContentArchived(ctx context.Context, contentID string, archived bool) error {
	return c.patchJSON(ctx, "/api/v1/content/"+contentID+"/archive", map[string]bool{"is_archived": archived}, nil)
}

func (c *Client) SetContentValidated(ctx context.Context, contentID string, validated bool) error {
	return c.patchJSON(ctx, "/api/v1/content/"+contentID+"/validate", map[string]bool{"is_validated": validated}, nil)
}

func (c *Client) VoteContent(ctx context.Context, contentID string, positive bool) error {
	return c.postJSON(ctx, "/api/v1/content/"+contentID+"/vote", map[string]bool{"positive": positive}, nil)
}

type UnvalidatedCountResult struct {
	Count int64 `json:"count"`
}

func (c *Client) UnvalidatedCount(ctx context.Context) (int64, error) {
	var result UnvalidatedCountResult
	if err := c.getJSON(ctx, "/api/v1/content/unvalidated/count", nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (c *Client) NextUnvalidated(ctx context.Context) (*types.ContentWithTags, error) {
	var content types.ContentWithTags
	if err := c.getJSON(ctx, "/api/v1/content/unvalidated/next", nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

type BulkImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// BulkImportContents uploads a CSV of cards. Rows missing a title are skipped
// server-side and reported in the result.
func (c *Client) BulkImportContents(ctx context.Context, filename string, csvData []byte) (*BulkImportResult, error) {
	var result BulkImportResult
	if err := c.postFile(ctx, "/api/v1/content/bulk", filename, bytes.NewReader(csvData), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type TagListResult struct {
	List  []types.Tag `json:"list"`
	Total int64       `json:"total"`
}

func (c *Client) ListTags(ctx context.Context) (*TagListResult, error) {
	var result TagListResult
	if err := c.getJSON(ctx, "/api/v1/tag/list", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CreateTag(ctx context.Context, name string) (*types.Tag, error) {
	var tag types.Tag
	if err := c.postJSON(ctx, "/api/v1/tag", map[string]string{"tag_name": name}, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) DeleteTag(ctx context.Context, tagID string) error {
	return c.delete(ctx, "/api/v1/tag/"+tagID)
}
