package sqlstore

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaq-platform/aaq-admin/pkg/types"
)

func TestApplyPagination(t *testing.T) {
	base := sq.Select("id").From("aaq_tag")

	t.Run("both zero means no pagination", func(t *testing.T) {
		queryString, _, err := applyPagination(base, types.NO_PAGINATION, types.NO_PAGINATION).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT id FROM aaq_tag", queryString)
	})

	t.Run("page one starts at offset zero", func(t *testing.T) {
		queryString, _, err := applyPagination(base, 1, 10).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT id FROM aaq_tag LIMIT 10 OFFSET 0", queryString)
	})

	t.Run("later pages advance the offset", func(t *testing.T) {
		queryString, _, err := applyPagination(base, 3, 10).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT id FROM aaq_tag LIMIT 10 OFFSET 20", queryString)
	})

	t.Run("explicit page zero with a page size is clamped to page one", func(t *testing.T) {
		queryString, _, err := applyPagination(base, 0, 10).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT id FROM aaq_tag LIMIT 10 OFFSET 0", queryString)
	})
}
