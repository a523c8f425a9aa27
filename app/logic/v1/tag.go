package v1

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/aaq-platform/aaq-admin/app/core"
	"github.com/aaq-platform/aaq-admin/pkg/errors"
	"github.com/aaq-platform/aaq-admin/pkg/i18n"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

type TagLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewTagLogic(ctx context.Context, core *core.Core) *TagLogic {
	return &TagLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// CreateTag rejects duplicates case-insensitively within the workspace.
func (l *TagLogic) CreateTag(workspaceID, name string) (*types.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("TagLogic.CreateTag.empty", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusUnprocessableEntity)
	}

	existing, err := l.core.Store().TagStore().GetByName(l.ctx, workspaceID, name)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("TagLogic.CreateTag.TagStore.GetByName", i18n.ERROR_INTERNAL, err)
	}
	if existing != nil {
		return nil, errors.New("TagLogic.CreateTag.exist", i18n.ERROR_TAG_NAME_EXIST, nil).Code(http.StatusBadRequest)
	}

	data := types.Tag{
		ID:          utils.GenUniqIDStr(),
		WorkspaceID: workspaceID,
		Name:        name,
	}
	if err := l.core.Store().TagStore().Create(l.ctx, data); err != nil {
		return nil, errors.New("TagLogic.CreateTag.TagStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return &data, nil
}

// ensureTag resolves a tag by name, creating it when absent. Used by the CSV
// bulk import inside its transaction.
func (l *TagLogic) ensureTag(ctx context.Context, workspaceID, name string) (*types.Tag, error) {
	existing, err := l.core.Store().TagStore().GetByName(ctx, workspaceID, name)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("TagLogic.ensureTag.TagStore.GetByName", i18n.ERROR_INTERNAL, err)
	}
	if existing != nil {
		return existing, nil
	}

	data := types.Tag{
		ID:          utils.GenUniqIDStr(),
		WorkspaceID: workspaceID,
		Name:        strings.TrimSpace(name),
	}
	if err := l.core.Store().TagStore().Create(ctx, data); err != nil {
		return nil, errors.New("TagLogic.ensureTag.TagStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return &data, nil
}

// DeleteTag removes the tag and its join rows, which detaches it from every
// card that carried it.
func (l *TagLogic) DeleteTag(workspaceID, id string) error {
	existing, err := l.core.Store().TagStore().Get(l.ctx, workspaceID, id)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("TagLogic.DeleteTag.TagStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if existing == nil {
		return errors.New("TagLogic.DeleteTag.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ContentTagStore().DeleteByTag(ctx, id); err != nil {
			return errors.New("TagLogic.DeleteTag.DeleteByTag", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().TagStore().Delete(ctx, workspaceID, id); err != nil {
			return errors.New("TagLogic.DeleteTag.TagStore.Delete", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

type TagListResult struct {
	List  []types.Tag `json:"list"`
	Total int64       `json:"total"`
}

func (l *TagLogic) ListTags(opts types.ListTagOptions, page, pageSize uint64) (*TagListResult, error) {
	list, err := l.core.Store().TagStore().List(l.ctx, opts, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("TagLogic.ListTags.TagStore.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().TagStore().Total(l.ctx, opts)
	if err != nil {
		return nil, errors.New("TagLogic.ListTags.TagStore.Total", i18n.ERROR_INTERNAL, err)
	}

	if list == nil {
		list = []types.Tag{}
	}
	return &TagListResult{List: list, Total: total}, nil
}
