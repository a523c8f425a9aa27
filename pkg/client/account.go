package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type LoginResult struct {
	Token       string                      `json:"access_token"`
	User        types.User                  `json:"user"`
	Workspaces  []types.UserWorkspaceDetail `json:"user_workspaces"`
	WorkspaceID string                      `json:"workspace_id"`
	Role        string                      `json:"user_role"`
}

// Login authenticates and adopts the returned token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.postJSON(ctx, "/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// RegisterFirstUser bootstraps an empty instance and logs in as the new
// platform admin.
func (c *Client) RegisterFirstUser(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.postJSON(ctx, "/api/v1/user/register", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

type requireRegisterPayload struct {
	RequireRegister bool `json:"require_register"`
}

func (c *Client) RequireRegister(ctx context.Context) (bool, error) {
	var payload requireRegisterPayload
	if err := c.getJSON(ctx, "/api/v1/user/require-register", nil, &payload); err != nil {
		return false, err
	}
	return payload.RequireRegister, nil
}

// UserExists probes a username via HEAD: 200 means taken, 404 means free.
func (c *Client) UserExists(ctx context.Context, username string) (bool, error) {
	query := url.Values{}
	query.Set("username", username)

	var exists bool
	if err := c.do(ctx, http.MethodHead, "/api/v1/user/exists", query, nil, "", &exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*types.UserWithWorkspaces, error) {
	var user types.UserWithWorkspaces
	if err := c.getJSON(ctx, "/api/v1/user/current", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type UserListResult struct {
	List  []types.UserWithWorkspaces `json:"list"`
	Total int64                      `json:"total"`
}

func (c *Client) ListUsers(ctx context.Context, page, pageSize uint64) (*UserListResult, error) {
	query := url.Values{}
	query.Set("page", strconv.FormatUint(page, 10))
	query.Set("pagesize", strconv.FormatUint(pageSize, 10))

	var result UserListResult
	if err := c.getJSON(ctx, "/api/v1/user/list", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type resetPasswordPayload struct {
	NewPassword string `json:"new_password"`
}

func (c *Client) ResetUserPassword(ctx context.Context, userID string) (string, error) {
	var payload resetPasswordPayload
	if err := c.postJSON(ctx, "/api/v1/user/"+userID+"/password/reset", nil, &payload); err != nil {
		return "", err
	}
	return payload.NewPassword, nil
}

func (c *Client) CurrentWorkspace(ctx context.Context) (*types.Workspace, error) {
	var workspace types.Workspace
	if err := c.getJSON(ctx, "/api/v1/workspace/current", nil, &workspace); err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (c *Client) ListMyWorkspaces(ctx context.Context) ([]types.UserWorkspaceDetail, error) {
	var list []types.UserWorkspaceDetail
	if err := c.getJSON(ctx, "/api/v1/workspace/list", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type SwitchWorkspaceResult struct {
	Token       string `json:"access_token"`
	WorkspaceID string `json:"workspace_id"`
	Role        string `json:"user_role"`
}

// SwitchWorkspace changes the active workspace and adopts the re-issued token.
func (c *Client) SwitchWorkspace(ctx context.Context, workspaceID string) (*SwitchWorkspaceResult, error) {
	var result SwitchWorkspaceResult
	err := c.postJSON(ctx, "/api/v1/workspace/switch", map[string]string{
		"workspace_id": workspaceID,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

type DashboardOverview struct {
	TotalCards       int64 `json:"total_cards"`
	ActiveCards      int64 `json:"active_cards"`
	UnvalidatedCards int64 `json:"unvalidated_cards"`
	TotalTags        int64 `json:"total_tags"`
	Members          int   `json:"members"`
	PositiveVotes    int64 `json:"positive_votes"`
	NegativeVotes    int64 `json:"negative_votes"`
	RunningJobs      int64 `json:"running_jobs"`
}

func (c *Client) DashboardOverview(ctx context.Context) (*DashboardOverview, error) {
	var overview DashboardOverview
	if err := c.getJSON(ctx, "/api/v1/dashboard/overview", nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

type ContentSummary struct {
	ContentID string `json:"content_id"`
	Summary   string `json:"summary"`
}

func (c *Client) ContentAISummary(ctx context.Context, contentID string) (*ContentSummary, error) {
	var summary ContentSummary
	if err := c.getJSON(ctx, "/api/v1/content/"+contentID+"/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
