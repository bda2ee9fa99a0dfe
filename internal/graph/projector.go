package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/learnloop/learnloop-backend/internal/domain"
	pkgerrors "github.com/learnloop/learnloop-backend/internal/pkg/errors"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
	"github.com/learnloop/learnloop-backend/internal/platform/neo4jdb"
	"github.com/learnloop/learnloop-backend/internal/repos"
	"github.com/learnloop/learnloop-backend/internal/scoring"
)

// Projector materializes the graph projection from the relational store.
// Runs are full rebuilds with merge semantics: re-running on an unchanged
// snapshot changes nothing. A run is best-effort and non-transactional:
// a bad row or a failed entity kind is logged and skipped, never aborting
// the batch. Overlapping Sync calls collapse into one run via singleflight.
type Projector struct {
	client       *neo4jdb.Client
	cfg          scoring.Config
	log          *logger.Logger
	users        repos.UserRepo
	resources    repos.ResourceRepo
	modules      repos.ModuleRepo
	paths        repos.LearningPathRepo
	interactions repos.InteractionRepo
	bookmarks    repos.BookmarkRepo

	group singleflight.Group
}

type SyncStats struct {
	Users         int `json:"users"`
	Resources     int `json:"resources"`
	Modules       int `json:"modules"`
	LearningPaths int `json:"learning_paths"`
	Interactions  int `json:"interactions"`
	Bookmarks     int `json:"bookmarks"`
	Skipped       int `json:"skipped"`
}

func NewProjector(
	client *neo4jdb.Client,
	cfg scoring.Config,
	baseLog *logger.Logger,
	users repos.UserRepo,
	resources repos.ResourceRepo,
	modules repos.ModuleRepo,
	paths repos.LearningPathRepo,
	interactions repos.InteractionRepo,
	bookmarks repos.BookmarkRepo,
) *Projector {
	return &Projector{
		client:       client,
		cfg:          cfg,
		log:          baseLog.With("component", "Projector"),
		users:        users,
		resources:    resources,
		modules:      modules,
		paths:        paths,
		interactions: interactions,
		bookmarks:    bookmarks,
	}
}

func (p *Projector) Sync(ctx context.Context) (SyncStats, error) {
	result, err, shared := p.group.Do("sync", func() (any, error) {
		return p.syncOnce(ctx)
	})
	if shared {
		p.log.Debug("sync request joined an in-flight run")
	}
	stats, _ := result.(SyncStats)
	return stats, err
}

func (p *Projector) syncOnce(ctx context.Context) (SyncStats, error) {
	var stats SyncStats
	if p.client == nil || p.client.Driver == nil {
		return stats, fmt.Errorf("projector: no graph client: %w", pkgerrors.ErrBackendUnavailable)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	started := time.Now()
	now := started.UTC()
	p.log.Info("graph sync started")

	initSchema(ctx, p.client, p.log)

	p.syncUsers(ctx, now, &stats)
	p.syncResources(ctx, now, &stats)
	p.syncModules(ctx, now, &stats)
	p.syncPaths(ctx, now, &stats)
	p.syncInteractions(ctx, now, &stats)
	p.syncBookmarks(ctx, now, &stats)

	p.log.Info("graph sync finished",
		"users", stats.Users,
		"resources", stats.Resources,
		"modules", stats.Modules,
		"learning_paths", stats.LearningPaths,
		"interactions", stats.Interactions,
		"bookmarks", stats.Bookmarks,
		"skipped", stats.Skipped,
		"elapsed", time.Since(started).String(),
	)
	return stats, nil
}

func (p *Projector) syncUsers(ctx context.Context, now time.Time, stats *SyncStats) {
	users, err := p.users.ListAll(ctx, nil)
	if err != nil {
		p.log.Error("sync users: load failed (skipping kind)", "error", err)
		return
	}
	rows := make([]map[string]any, 0, len(users))
	for _, u := range users {
		row, err := userRow(u, now)
		if err != nil {
			p.log.Warn("sync users: skipping row", "error", err)
			stats.Skipped++
			continue
		}
		rows = append(rows, row)
	}
	if err := upsertUserNodes(ctx, p.client, rows); err != nil {
		p.log.Error("sync users: write failed", "error", err)
		return
	}
	stats.Users = len(rows)
}

func (p *Projector) syncResources(ctx context.Context, now time.Time, stats *SyncStats) {
	resources, err := p.resources.ListAll(ctx, nil)
	if err != nil {
		p.log.Error("sync resources: load failed (skipping kind)", "error", err)
		return
	}
	rows := make([]map[string]any, 0, len(resources))
	for _, r := range resources {
		row, err := resourceRow(r, now)
		if err != nil {
			p.log.Warn("sync resources: skipping row", "error", err)
			stats.Skipped++
			continue
		}
		rows = append(rows, row)
	}
	if err := upsertResourceNodes(ctx, p.client, rows); err != nil {
		p.log.Error("sync resources: write failed", "error", err)
		return
	}
	stats.Resources = len(rows)
}

func (p *Projector) syncModules(ctx context.Context, now time.Time, stats *SyncStats) {
	modules, err := p.modules.ListAll(ctx, nil)
	if err != nil {
		p.log.Error("sync modules: load failed (skipping kind)", "error", err)
		return
	}
	rows := make([]map[string]any, 0, len(modules))
	for _, m := range modules {
		row, err := moduleRow(m, now)
		if err != nil {
			p.log.Warn("sync modules: skipping row", "error", err)
			stats.Skipped++
			continue
		}
		rows = append(rows, row)
	}
	if err := upsertModuleNodes(ctx, p.client, rows); err != nil {
		p.log.Error("sync modules: write failed", "error", err)
		return
	}
	stats.Modules = len(rows)

	links, err := p.modules.ListAllResourceLinks(ctx, nil)
	if err != nil {
		p.log.Error("sync module links: load failed", "error", err)
		return
	}
	linkRows := make([]map[string]any, 0, len(links))
	for _, l := range links {
		if l == nil || l.ModuleID == uuid.Nil || l.ResourceID == uuid.Nil {
			stats.Skipped++
			continue
		}
		linkRows = append(linkRows, map[string]any{
			"module_id":   l.ModuleID.String(),
			"resource_id": l.ResourceID.String(),
			"position":    int64(l.Position),
			"synced_at":   now.Format(time.RFC3339Nano),
		})
	}
	if err := upsertModuleResourceEdges(ctx, p.client, linkRows); err != nil {
		p.log.Error("sync module links: write failed", "error", err)
	}
}

func (p *Projector) syncPaths(ctx context.Context, now time.Time, stats *SyncStats) {
	paths, err := p.paths.ListAll(ctx, nil)
	if err != nil {
		p.log.Error("sync paths: load failed (skipping kind)", "error", err)
		return
	}
	rows := make([]map[string]any, 0, len(paths))
	for _, lp := range paths {
		row, err := pathRow(lp, now)
		if err != nil {
			p.log.Warn("sync paths: skipping row", "error", err)
			stats.Skipped++
			continue
		}
		rows = append(rows, row)
	}
	if err := upsertPathNodes(ctx, p.client, rows); err != nil {
		p.log.Error("sync paths: write failed", "error", err)
		return
	}
	stats.LearningPaths = len(rows)

	links, err := p.paths.ListAllModuleLinks(ctx, nil)
	if err != nil {
		p.log.Error("sync path links: load failed", "error", err)
		return
	}
	linkRows := make([]map[string]any, 0, len(links))
	for _, l := range links {
		if l == nil || l.LearningPathID == uuid.Nil || l.ModuleID == uuid.Nil {
			stats.Skipped++
			continue
		}
		linkRows = append(linkRows, map[string]any{
			"path_id":   l.LearningPathID.String(),
			"module_id": l.ModuleID.String(),
			"position":  int64(l.Position),
			"synced_at": now.Format(time.RFC3339Nano),
		})
	}
	if err := upsertPathModuleEdges(ctx, p.client, linkRows); err != nil {
		p.log.Error("sync path links: write failed", "error", err)
	}
}

func (p *Projector) syncInteractions(ctx context.Context, now time.Time, stats *SyncStats) {
	interactions, err := p.interactions.ListAll(ctx, nil)
	if err != nil {
		p.log.Error("sync interactions: load failed (skipping kind)", "error", err)
		return
	}

	byLabel := map[string][]map[string]any{}
	for _, i := range interactions {
		row, label, err := interactionRow(i, p.cfg, now)
		if err != nil {
			p.log.Warn("sync interactions: skipping row", "error", err)
			stats.Skipped++
			continue
		}
		byLabel[label] = append(byLabel[label], row)
	}

	for _, label := range []string{"Resource", "Module", "LearningPath"} {
		rows := byLabel[label]
		if len(rows) == 0 {
			continue
		}
		if err := upsertInteractions(ctx, p.client, label, rows); err != nil {
			p.log.Error("sync interactions: write failed", "target", label, "error", err)
			continue
		}
		stats.Interactions += len(rows)
	}
}

func (p *Projector) syncBookmarks(ctx context.Context, now time.Time, stats *SyncStats) {
	bookmarks, err := p.bookmarks.ListAll(ctx, nil)
	if err != nil {
		p.log.Error("sync bookmarks: load failed (skipping kind)", "error", err)
		return
	}
	rows := make([]map[string]any, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b == nil || b.UserID == uuid.Nil || b.ResourceID == uuid.Nil {
			stats.Skipped++
			continue
		}
		rows = append(rows, map[string]any{
			"user_id":     b.UserID.String(),
			"resource_id": b.ResourceID.String(),
			"synced_at":   now.Format(time.RFC3339Nano),
		})
	}
	if err := upsertBookmarkEdges(ctx, p.client, rows); err != nil {
		p.log.Error("sync bookmarks: write failed", "error", err)
		return
	}
	stats.Bookmarks = len(rows)
}

func userRow(u *domain.User, now time.Time) (map[string]any, error) {
	if u == nil {
		return nil, fmt.Errorf("nil user")
	}
	if u.ID == uuid.Nil {
		return nil, fmt.Errorf("user missing id")
	}
	return map[string]any{
		"id":                      u.ID.String(),
		"education_level":         u.EducationLevel,
		"field_of_study":          u.FieldOfStudy,
		"topic_interests":         domain.StringList(u.TopicInterests),
		"preferred_content_types": domain.StringList(u.PreferredContentTypes),
		"language":                u.Language,
		"synced_at":               now.Format(time.RFC3339Nano),
	}, nil
}

func resourceRow(r *domain.Resource, now time.Time) (map[string]any, error) {
	if r == nil {
		return nil, fmt.Errorf("nil resource")
	}
	if r.ID == uuid.Nil {
		return nil, fmt.Errorf("resource missing id")
	}
	if strings.TrimSpace(r.Title) == "" {
		return nil, fmt.Errorf("resource %s missing title", r.ID)
	}
	return map[string]any{
		"id":          r.ID.String(),
		"title":       r.Title,
		"description": r.Description,
		"type":        r.Type,
		"categories":  domain.StringList(r.Categories),
		"tags":        domain.StringList(r.Tags),
		"format":      r.Format,
		"visibility":  r.Visibility,
		"synced_at":   now.Format(time.RFC3339Nano),
	}, nil
}

func moduleRow(m *domain.Module, now time.Time) (map[string]any, error) {
	if m == nil {
		return nil, fmt.Errorf("nil module")
	}
	if m.ID == uuid.Nil {
		return nil, fmt.Errorf("module missing id")
	}
	if strings.TrimSpace(m.Title) == "" {
		return nil, fmt.Errorf("module %s missing title", m.ID)
	}
	return map[string]any{
		"id":                 m.ID.String(),
		"title":              m.Title,
		"description":        m.Description,
		"estimated_duration": int64(m.EstimatedDuration),
		"synced_at":          now.Format(time.RFC3339Nano),
	}, nil
}

func pathRow(p *domain.LearningPath, now time.Time) (map[string]any, error) {
	if p == nil {
		return nil, fmt.Errorf("nil learning path")
	}
	if p.ID == uuid.Nil {
		return nil, fmt.Errorf("learning path missing id")
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("learning path %s missing title", p.ID)
	}
	return map[string]any{
		"id":                 p.ID.String(),
		"title":              p.Title,
		"summary":            p.Summary,
		"visibility":         p.Visibility,
		"estimated_duration": int64(p.EstimatedDuration),
		"credit_value":       int64(p.CreditValue),
		"synced_at":          now.Format(time.RFC3339Nano),
	}, nil
}

// interactionRow precomputes the decayed weight at projection time; the
// value is as fresh as the last sync run.
func interactionRow(i *domain.Interaction, cfg scoring.Config, now time.Time) (map[string]any, string, error) {
	if i == nil {
		return nil, "", fmt.Errorf("nil interaction")
	}
	if i.ID == uuid.Nil || i.UserID == uuid.Nil {
		return nil, "", fmt.Errorf("interaction missing ids")
	}

	var label, targetID string
	switch i.TargetType() {
	case domain.TargetResource:
		label, targetID = "Resource", i.ResourceID.String()
	case domain.TargetModule:
		label, targetID = "Module", i.ModuleID.String()
	case domain.TargetLearningPath:
		label, targetID = "LearningPath", i.LearningPathID.String()
	default:
		return nil, "", fmt.Errorf("interaction %s has no target", i.ID)
	}

	return map[string]any{
		"id":          i.ID.String(),
		"user_id":     i.UserID.String(),
		"target_id":   targetID,
		"type":        i.Type,
		"occurred_at": i.OccurredAt.UTC().Format(time.RFC3339Nano),
		"weight":      cfg.Weight(i.Type, i.OccurredAt, now),
		"synced_at":   now.Format(time.RFC3339Nano),
	}, label, nil
}

func toLowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
