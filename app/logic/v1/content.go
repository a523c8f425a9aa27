package v1

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/aaq-platform/aaq-admin/app/core"
	"github.com/aaq-platform/aaq-admin/pkg/errors"
	"github.com/aaq-platform/aaq-admin/pkg/i18n"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

type ContentLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewContentLogic(ctx context.Context, core *core.Core) *ContentLogic {
	return &ContentLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

type CreateContentArgs struct {
	Title      string
	Text       string
	Metadata   types.ContentMetadata
	RelatedIDs []string
	Tags       []string
}

func (l *ContentLogic) validateArgs(title, text string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("ContentLogic.validateArgs.title", i18n.ERROR_TITLE_REQUIRED, nil).Code(http.StatusUnprocessableEntity)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("ContentLogic.validateArgs.text", i18n.ERROR_TEXT_REQUIRED, nil).Code(http.StatusUnprocessableEntity)
	}
	return nil
}

// checkQuota returns 403 with the quota message once the workspace card count
// reached its content quota. The quota check counts unarchived cards only.
func (l *ContentLogic) checkQuota(ctx context.Context, workspaceID string, incoming int64) error {
	workspace, err := l.core.Store().WorkspaceStore().Get(ctx, workspaceID)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("ContentLogic.checkQuota.WorkspaceStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if workspace == nil {
		return errors.New("ContentLogic.checkQuota.workspace.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	archived := false
	total, err := l.core.Store().ContentStore().Total(ctx, types.ListContentOptions{
		WorkspaceID: workspaceID,
		Archived:    &archived,
	})
	if err != nil {
		return errors.New("ContentLogic.checkQuota.ContentStore.Total", i18n.ERROR_INTERNAL, err)
	}

	if total+incoming > workspace.ContentQuota {
		return errors.New("ContentLogic.checkQuota.exceeded", i18n.ERROR_QUOTA_EXCEEDED, nil).Code(http.StatusForbidden)
	}
	return nil
}

func (l *ContentLogic) CreateContent(workspaceID string, args CreateContentArgs) (*types.ContentWithTags, error) {
	if err := l.validateArgs(args.Title, args.Text); err != nil {
		return nil, err
	}
	if err := l.checkQuota(l.ctx, workspaceID, 1); err != nil {
		return nil, err
	}

	displayNumber, err := l.core.Store().ContentStore().MaxDisplayNumber(l.ctx, workspaceID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ContentLogic.CreateContent.MaxDisplayNumber", i18n.ERROR_INTERNAL, err)
	}

	data := types.Content{
		ID:            utils.GenUniqIDStr(),
		WorkspaceID:   workspaceID,
		Title:         args.Title,
		Text:          args.Text,
		Metadata:      args.Metadata,
		RelatedIDs:    args.RelatedIDs,
		DisplayNumber: displayNumber + 1,
		UserID:        l.GetUserInfo().User,
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ContentStore().Create(ctx, data); err != nil {
			return errors.New("ContentLogic.CreateContent.ContentStore.Create", i18n.ERROR_INTERNAL, err)
		}
		if len(args.Tags) > 0 {
			if err := l.core.Store().ContentTagStore().SetContentTags(ctx, data.ID, args.Tags); err != nil {
				return errors.New("ContentLogic.CreateContent.SetContentTags", i18n.ERROR_INTERNAL, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &types.ContentWithTags{Content: data, Tags: args.Tags}, nil
}

func (l *ContentLogic) GetContent(workspaceID, id string) (*types.ContentWithTags, error) {
	data, err := l.core.Store().ContentStore().Get(l.ctx, workspaceID, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ContentLogic.GetContent.ContentStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if data == nil {
		return nil, errors.New("ContentLogic.GetContent.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	tags, err := l.core.Store().ContentTagStore().ListByContents(l.ctx, []string{id})
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ContentLogic.GetContent.ListByContents", i18n.ERROR_INTERNAL, err)
	}

	return &types.ContentWithTags{
		Content: *data,
		Tags: lo.Map(tags, func(item types.ContentTag, _ int) string {
			return item.TagID
		}),
	}, nil
}

func (l *ContentLogic) UpdateContent(workspaceID, id string, args types.UpdateContentArgs) error {
	if err := l.validateArgs(args.Title, args.Text); err != nil {
		return err
	}

	existing, err := l.core.Store().ContentStore().Get(l.ctx, workspaceID, id)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("ContentLogic.UpdateContent.ContentStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if existing == nil {
		return errors.New("ContentLogic.UpdateContent.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ContentStore().Update(ctx, workspaceID, id, args); err != nil {
			return errors.New("ContentLogic.UpdateContent.ContentStore.Update", i18n.ERROR_INTERNAL, err)
		}
		if args.Tags != nil {
			if err := l.core.Store().ContentTagStore().SetContentTags(ctx, id, args.Tags); err != nil {
				return errors.New("ContentLogic.UpdateContent.SetContentTags", i18n.ERROR_INTERNAL, err)
			}
		}
		return nil
	})
}

func (l *ContentLogic) DeleteContent(workspaceID, id string) error {
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ContentTagStore().DeleteByContent(ctx, id); err != nil {
			return errors.New("ContentLogic.DeleteContent.DeleteByContent", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().ContentStore().Delete(ctx, workspaceID, id); err != nil {
			return errors.New("ContentLogic.DeleteContent.ContentStore.Delete", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

func (l *ContentLogic) SetArchived(workspaceID, id string, archived bool) error {
	if err := l.core.Store().ContentStore().SetArchived(l.ctx, workspaceID, id, archived); err != nil {
		return errors.New("ContentLogic.SetArchived.ContentStore.SetArchived", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *ContentLogic) SetValidated(workspaceID, id string, validated bool) error {
	if err := l.core.Store().ContentStore().SetValidated(l.ctx, workspaceID, id, validated); err != nil {
		return errors.New("ContentLogic.SetValidated.ContentStore.SetValidated", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *ContentLogic) AddVote(workspaceID, id string, positive bool) error {
	if err := l.core.Store().ContentStore().AddVote(l.ctx, workspaceID, id, positive); err != nil {
		return errors.New("ContentLogic.AddVote.ContentStore.AddVote", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

type ContentListResult struct {
	List  []types.ContentWithTags `json:"list"`
	Total int64                   `json:"total"`
}

func (l *ContentLogic) ListContents(opts types.ListContentOptions, skip, limit uint64) (*ContentListResult, error) {
	list, err := l.core.Store().ContentStore().List(l.ctx, opts, skip, limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ContentLogic.ListContents.ContentStore.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ContentStore().Total(l.ctx, opts)
	if err != nil {
		return nil, errors.New("ContentLogic.ListContents.ContentStore.Total", i18n.ERROR_INTERNAL, err)
	}

	result := &ContentListResult{
		List:  make([]types.ContentWithTags, 0, len(list)),
		Total: total,
	}
	if len(list) == 0 {
		return result, nil
	}

	contentIDs := lo.Map(list, func(item types.Content, _ int) string {
		return item.ID
	})
	tagRows, err := l.core.Store().ContentTagStore().ListByContents(l.ctx, contentIDs)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ContentLogic.ListContents.ListByContents", i18n.ERROR_INTERNAL, err)
	}
	tagsByContent := lo.GroupBy(tagRows, func(item types.ContentTag) string {
		return item.ContentID
	})

	for _, item := range list {
		result.List = append(result.List, types.ContentWithTags{
			Content: item,
			Tags: lo.Map(tagsByContent[item.ID], func(row types.ContentTag, _ int) string {
				return row.TagID
			}),
		})
	}
	return result, nil
}

// UnvalidatedCount backs the validation backlog badge.
func (l *ContentLogic) UnvalidatedCount(workspaceID string) (int64, error) {
	count, err := l.core.Store().ContentStore().CountUnvalidated(l.ctx, workspaceID)
	if err != nil {
		return 0, errors.New("ContentLogic.UnvalidatedCount.CountUnvalidated", i18n.ERROR_INTERNAL, err)
	}
	return count, nil
}

// NextUnvalidated returns the oldest card still waiting for review, or nil
// when the backlog is empty.
func (l *ContentLogic) NextUnvalidated(workspaceID string) (*types.ContentWithTags, error) {
	data, err := l.core.Store().ContentStore().NextUnvalidated(l.ctx, workspaceID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ContentLogic.NextUnvalidated.ContentStore.NextUnvalidated", i18n.ERROR_INTERNAL, err)
	}
	if data == nil {
		return nil, nil
	}
	return l.GetContent(workspaceID, data.ID)
}

type BulkImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// BulkImportCSV ingests a title,text[,tags] CSV export. The header row is
// detected by its first cell; tag cells are semicolon separated tag names,
// created on the fly when missing.
func (l *ContentLogic) BulkImportCSV(workspaceID string, r io.Reader) (*BulkImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New("ContentLogic.BulkImportCSV.ReadAll", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	}

	type row struct {
		title   string
		text    string
		tagList []string
	}

	var (
		rows    []row
		skipped int
	)
	for i, record := range records {
		if len(record) < 2 {
			skipped++
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "title") {
			continue
		}
		title := strings.TrimSpace(record[0])
		text := strings.TrimSpace(record[1])
		if title == "" || text == "" {
			skipped++
			continue
		}
		item := row{title: title, text: text}
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			for _, name := range strings.Split(record[2], ";") {
				if name = strings.TrimSpace(name); name != "" {
					item.tagList = append(item.tagList, name)
				}
			}
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return &BulkImportResult{Skipped: skipped}, nil
	}

	if err := l.checkQuota(l.ctx, workspaceID, int64(len(rows))); err != nil {
		return nil, err
	}

	displayNumber, err := l.core.Store().ContentStore().MaxDisplayNumber(l.ctx, workspaceID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ContentLogic.BulkImportCSV.MaxDisplayNumber", i18n.ERROR_INTERNAL, err)
	}

	tagLogic := NewTagLogic(l.ctx, l.core)
	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		for _, item := range rows {
			displayNumber++
			data := types.Content{
				ID:            utils.GenUniqIDStr(),
				WorkspaceID:   workspaceID,
				Title:         item.title,
				Text:          item.text,
				DisplayNumber: displayNumber,
				UserID:        l.GetUserInfo().User,
			}
			if err := l.core.Store().ContentStore().Create(ctx, data); err != nil {
				return errors.New("ContentLogic.BulkImportCSV.ContentStore.Create", i18n.ERROR_INTERNAL, err)
			}

			if len(item.tagList) == 0 {
				continue
			}
			tagIDs := make([]string, 0, len(item.tagList))
			for _, name := range item.tagList {
				tag, err := tagLogic.ensureTag(ctx, workspaceID, name)
				if err != nil {
					return err
				}
				tagIDs = append(tagIDs, tag.ID)
			}
			if err := l.core.Store().ContentTagStore().SetContentTags(ctx, data.ID, tagIDs); err != nil {
				return errors.New("ContentLogic.BulkImportCSV.SetContentTags", i18n.ERROR_INTERNAL, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BulkImportResult{Created: len(rows), Skipped: skipped}, nil
}
