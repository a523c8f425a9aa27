package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaq-platform/aaq-admin/pkg/types"
)

// fakeBackend is an in-memory stand-in for the admin API, enough surface for
// the tag and content round-trip tests.
type fakeBackend struct {
	tags     []types.Tag
	contents []types.ContentWithTags
	nextID   int
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	engine.POST("/api/v1/tag", func(c *gin.Context) {
		var req struct {
			Name string `json:"tag_name"`
		}
		require.NoError(t, c.ShouldBindJSON(&req))

		for _, tag := range f.tags {
			if strings.EqualFold(tag.Name, req.Name) {
				c.JSON(http.StatusBadRequest, gin.H{
					"meta": gin.H{"code": http.StatusBadRequest, "message": "tag exists"},
				})
				return
			}
		}
		f.nextID++
		tag := types.Tag{ID: "tag-" + strconv.Itoa(f.nextID), Name: req.Name}
		f.tags = append(f.tags, tag)
		c.JSON(http.StatusOK, gin.H{"meta": gin.H{"code": 0}, "data": tag})
	})

	engine.GET("/api/v1/tag/list", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"meta": gin.H{"code": 0},
			"data": gin.H{"list": f.tags, "total": len(f.tags)},
		})
	})

	engine.DELETE("/api/v1/tag/:tagid", func(c *gin.Context) {
		tagID := c.Param("tagid")
		f.tags = lo.Reject(f.tags, func(tag types.Tag, _ int) bool {
			return tag.ID == tagID
		})
		for i := range f.contents {
			f.contents[i].Tags = lo.Reject(f.contents[i].Tags, func(id string, _ int) bool {
				return id == tagID
			})
		}
		c.JSON(http.StatusOK, gin.H{"meta": gin.H{"code": 0}})
	})

	engine.GET("/api/v1/content/:contentid", func(c *gin.Context) {
		for _, content := range f.contents {
			if content.ID == c.Param("contentid") {
				c.JSON(http.StatusOK, gin.H{"meta": gin.H{"code": 0}, "data": content})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"meta": gin.H{"code": http.StatusNotFound, "message": "not found"}})
	})

	return engine
}

const testContentID = "content-1"

func TestTagRoundTrip(t *testing.T) {
	backend := &fakeBackend{
		contents: []types.ContentWithTags{
			{Content: types.Content{ID: testContentID, Title: "How do I reset my password?"}},
		},
	}
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	ctx := context.Background()
	api := New(server.URL, "test-token")

	created, err := api.CreateTag(ctx, "Foo")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	backend.contents[0].Tags = []string{created.ID}

	listed, err := api.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, listed.List, 1)
	assert.Equal(t, "Foo", listed.List[0].Name)

	// duplicate names are rejected case-insensitively
	_, err = api.CreateTag(ctx, "foo")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	require.NoError(t, api.DeleteTag(ctx, created.ID))

	listed, err = api.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed.List)

	content, err := api.GetContent(ctx, testContentID)
	require.NoError(t, err)
	assert.Empty(t, content.Tags)
}

func TestQuotaExceededIsDistinguished(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"meta": map[string]interface{}{"code": http.StatusForbidden, "message": "quota exceeded", "request_id": "r-1"},
		})
	}))
	defer server.Close()

	_, err := New(server.URL, "test-token").CreateContent(context.Background(), ContentDraft{
		Title: "q", Text: "a",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.QuotaExceeded())
	assert.Equal(t, "quota exceeded", apiErr.Message)
	assert.Equal(t, "r-1", apiErr.RequestID)
}

func TestGenericFailureIsNotQuota(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New(server.URL, "test-token").ListTags(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, apiErr.QuotaExceeded())
}
