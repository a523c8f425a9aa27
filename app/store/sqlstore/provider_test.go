package sqlstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaq-platform/aaq-admin/pkg/testutils"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type testDSN struct {
	dsn string
}

func (c testDSN) FormatDSN() string {
	return c.dsn
}

// setupTestProvider connects to the database named by AAQ_TEST_POSTGRESQL_DSN
// and applies migrations. Tests calling it are skipped when the DSN is unset.
func setupTestProvider(t *testing.T) *Provider {
	t.Helper()

	if err := testutils.LoadEnv(); err != nil {
		t.Fatalf("load .env: %v", err)
	}

	dsn := os.Getenv("AAQ_TEST_POSTGRESQL_DSN")
	if dsn == "" {
		t.Skip("AAQ_TEST_POSTGRESQL_DSN not set, skipping database tests")
	}

	p := MustSetup(testDSN{dsn: dsn})()
	require.NoError(t, p.Install())
	return p
}

func TestTagStoreRoundTrip(t *testing.T) {
	p := setupTestProvider(t)
	ctx := context.Background()

	workspaceID := testutils.GetEnvOrDefault("AAQ_TEST_WORKSPACE_ID", "w-store-test")
	tag := types.Tag{
		ID:          fmt.Sprintf("tag-%d", time.Now().UnixNano()),
		WorkspaceID: workspaceID,
		Name:        fmt.Sprintf("Store-Test-%d", time.Now().UnixNano()),
	}

	require.NoError(t, p.TagStore().Create(ctx, tag))
	defer func() {
		require.NoError(t, p.TagStore().Delete(ctx, workspaceID, tag.ID))
	}()

	got, err := p.TagStore().Get(ctx, workspaceID, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, tag.Name, got.Name)
	assert.NotZero(t, got.CreatedAt)

	// lookup by name ignores case
	byName, err := p.TagStore().GetByName(ctx, workspaceID, tag.Name)
	require.NoError(t, err)
	assert.Equal(t, tag.ID, byName.ID)

	list, err := p.TagStore().List(ctx, types.ListTagOptions{WorkspaceID: workspaceID}, 1, 50)
	require.NoError(t, err)
	found := false
	for _, item := range list {
		if item.ID == tag.ID {
			found = true
		}
	}
	assert.True(t, found)
}
