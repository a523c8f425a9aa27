package v1

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/aaq-platform/aaq-admin/app/core"
	"github.com/aaq-platform/aaq-admin/pkg/errors"
	"github.com/aaq-platform/aaq-admin/pkg/i18n"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

type DashboardLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewDashboardLogic(ctx context.Context, core *core.Core) *DashboardLogic {
	return &DashboardLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
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

func (l *DashboardLogic) Overview(workspaceID string) (*DashboardOverview, error) {
	store := l.core.Store()

	total, err := store.ContentStore().Total(l.ctx, types.ListContentOptions{WorkspaceID: workspaceID})
	if err != nil {
		return nil, errors.New("DashboardLogic.Overview.ContentStore.Total", i18n.ERROR_INTERNAL, err)
	}

	archived := false
	active, err := store.ContentStore().Total(l.ctx, types.ListContentOptions{WorkspaceID: workspaceID, Archived: &archived})
	if err != nil {
		return nil, errors.New("DashboardLogic.Overview.ContentStore.Total.active", i18n.ERROR_INTERNAL, err)
	}

	unvalidated, err := store.ContentStore().CountUnvalidated(l.ctx, workspaceID)
	if err != nil {
		return nil, errors.New("DashboardLogic.Overview.CountUnvalidated", i18n.ERROR_INTERNAL, err)
	}

	tags, err := store.TagStore().Total(l.ctx, types.ListTagOptions{WorkspaceID: workspaceID})
	if err != nil {
		return nil, errors.New("DashboardLogic.Overview.TagStore.Total", i18n.ERROR_INTERNAL, err)
	}

	members, err := store.UserWorkspaceStore().ListWorkspaceUsers(l.ctx, workspaceID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DashboardLogic.Overview.ListWorkspaceUsers", i18n.ERROR_INTERNAL, err)
	}

	inProgress := types.JOB_STATUS_IN_PROGRESS
	runningJobs, err := store.IndexJobStore().Total(l.ctx, types.ListIndexJobOptions{
		WorkspaceID: workspaceID,
		Status:      &inProgress,
	})
	if err != nil {
		return nil, errors.New("DashboardLogic.Overview.IndexJobStore.Total", i18n.ERROR_INTERNAL, err)
	}

	cards, err := store.ContentStore().List(l.ctx, types.ListContentOptions{WorkspaceID: workspaceID},
		0, types.NO_PAGINATION)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DashboardLogic.Overview.ContentStore.List", i18n.ERROR_INTERNAL, err)
	}

	overview := &DashboardOverview{
		TotalCards:       total,
		ActiveCards:      active,
		UnvalidatedCards: unvalidated,
		TotalTags:        tags,
		Members:          len(members),
		RunningJobs:      runningJobs,
	}
	for _, card := range cards {
		overview.PositiveVotes += card.PositiveVotes
		overview.NegativeVotes += card.NegativeVotes
	}
	return overview, nil
}

type InsightPoint struct {
	Day          string `json:"day"`
	CardsCreated int    `json:"cards_created"`
}

// Insights buckets card creation per day over the trailing window.
func (l *DashboardLogic) Insights(workspaceID string, days int) ([]InsightPoint, error) {
	if days <= 0 {
		days = 14
	}

	cards, err := l.core.Store().ContentStore().List(l.ctx, types.ListContentOptions{WorkspaceID: workspaceID},
		0, types.NO_PAGINATION)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DashboardLogic.Insights.ContentStore.List", i18n.ERROR_INTERNAL, err)
	}

	start := time.Now().UTC().AddDate(0, 0, -(days - 1)).Truncate(time.Hour * 24)
	byDay := make(map[string]int)
	for _, card := range cards {
		created := time.Unix(card.CreatedAt, 0).UTC()
		if created.Before(start) {
			continue
		}
		byDay[created.Format("2006-01-02")]++
	}

	points := make([]InsightPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		points = append(points, InsightPoint{Day: day, CardsCreated: byDay[day]})
	}
	return points, nil
}

type PerformanceResult struct {
	TopVoted    []types.Content `json:"top_voted"`
	WorstRated  []types.Content `json:"worst_rated"`
	MostPopular []types.Content `json:"most_popular"`
}

// Performance ranks cards by upvotes, downvotes and total engagement.
func (l *DashboardLogic) Performance(workspaceID string, topN int) (*PerformanceResult, error) {
	if topN <= 0 {
		topN = 10
	}

	cards, err := l.core.Store().ContentStore().List(l.ctx, types.ListContentOptions{WorkspaceID: workspaceID},
		0, types.NO_PAGINATION)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DashboardLogic.Performance.ContentStore.List", i18n.ERROR_INTERNAL, err)
	}

	rank := func(less func(a, b types.Content) bool) []types.Content {
		sorted := make([]types.Content, len(cards))
		copy(sorted, cards)
		sort.SliceStable(sorted, func(i, j int) bool {
			return less(sorted[i], sorted[j])
		})
		if len(sorted) > topN {
			sorted = sorted[:topN]
		}
		return sorted
	}

	return &PerformanceResult{
		TopVoted: rank(func(a, b types.Content) bool {
			return a.PositiveVotes > b.PositiveVotes
		}),
		WorstRated: rank(func(a, b types.Content) bool {
			return a.NegativeVotes > b.NegativeVotes
		}),
		MostPopular: rank(func(a, b types.Content) bool {
			return a.PositiveVotes+a.NegativeVotes > b.PositiveVotes+b.NegativeVotes
		}),
	}, nil
}

type TopicUsage struct {
	TagID   string `json:"tag_id"`
	TagName string `json:"tag_name"`
	Cards   int64  `json:"cards"`
}

// TopicVisualization reports how many cards carry each tag.
func (l *DashboardLogic) TopicVisualization(workspaceID string) ([]TopicUsage, error) {
	counts, err := l.core.Store().ContentTagStore().CountByTags(l.ctx, workspaceID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DashboardLogic.TopicVisualization.CountByTags", i18n.ERROR_INTERNAL, err)
	}

	tags, err := l.core.Store().TagStore().List(l.ctx, types.ListTagOptions{WorkspaceID: workspaceID},
		types.NO_PAGINATION, types.NO_PAGINATION)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DashboardLogic.TopicVisualization.TagStore.List", i18n.ERROR_INTERNAL, err)
	}

	usage := lo.Map(tags, func(tag types.Tag, _ int) TopicUsage {
		return TopicUsage{
			TagID:   tag.ID,
			TagName: tag.Name,
			Cards:   counts[tag.ID],
		}
	})
	sort.SliceStable(usage, func(i, j int) bool {
		return usage[i].Cards > usage[j].Cards
	})
	return usage, nil
}

// DrillDown lists the cards behind one topic-visualization slice.
func (l *DashboardLogic) DrillDown(workspaceID, tagID string, skip, limit uint64) (*ContentListResult, error) {
	return NewContentLogic(l.ctx, l.core).ListContents(types.ListContentOptions{
		WorkspaceID: workspaceID,
		TagID:       tagID,
	}, skip, limit)
}

type ContentSummary struct {
	ContentID string `json:"content_id"`
	Summary   string `json:"summary"`
}

// ContentAISummary returns the summary text stored in the card's metadata.
// Summary generation happens outside this service; an empty string means no
// summary has been attached yet.
func (l *DashboardLogic) ContentAISummary(workspaceID, contentID string) (*ContentSummary, error) {
	card, err := NewContentLogic(l.ctx, l.core).GetContent(workspaceID, contentID)
	if err != nil {
		return nil, err
	}

	var meta map[string]json.RawMessage
	result := &ContentSummary{ContentID: contentID}
	if len(card.Metadata) > 0 {
		if err := json.Unmarshal(card.Metadata, &meta); err == nil {
			if raw, ok := meta["ai_summary"]; ok {
				var summary string
				if err := json.Unmarshal(raw, &summary); err == nil {
					result.Summary = summary
				}
			}
		}
	}
	return result, nil
}
