package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	pkgerrors "github.com/learnloop/learnloop-backend/internal/pkg/errors"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
	"github.com/learnloop/learnloop-backend/internal/platform/neo4jdb"
)

// Neo4jView reads recommendation candidates from the graph projection.
// All queries run read-only sessions under the client's deadline; a failed
// or expired call surfaces as ErrBackendUnavailable.
type Neo4jView struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jView(client *neo4jdb.Client, baseLog *logger.Logger) *Neo4jView {
	return &Neo4jView{client: client, log: baseLog.With("view", "Neo4jView")}
}

func (v *Neo4jView) query(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	if v.client == nil || v.client.Driver == nil {
		return nil, fmt.Errorf("graph view: no client: %w", pkgerrors.ErrBackendUnavailable)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, v.client.Timeout)
	defer cancel()

	session := v.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: v.client.Database,
	})
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("graph view query failed: %v: %w", err, pkgerrors.ErrBackendUnavailable)
	}
	recs, _ := records.([]*neo4j.Record)
	return recs, nil
}

func (v *Neo4jView) queryCandidates(ctx context.Context, cypher string, params map[string]any) ([]Candidate, error) {
	records, err := v.query(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(records))
	for _, rec := range records {
		c, ok := candidateFromRecord(rec)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func candidateFromRecord(rec *neo4j.Record) (Candidate, bool) {
	idStr, _ := recordString(rec, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return Candidate{}, false
	}
	title, _ := recordString(rec, "title")
	description, _ := recordString(rec, "description")
	typ, _ := recordString(rec, "type")

	return Candidate{
		ID:          id,
		Title:       title,
		Description: description,
		Type:        typ,
		Categories:  recordStrings(rec, "categories"),
		Tags:        recordStrings(rec, "tags"),
		Score:       recordFloat(rec, "score"),
	}, true
}

func recordString(rec *neo4j.Record, key string) (string, bool) {
	raw, ok := rec.Get(key)
	if !ok || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func recordStrings(rec *neo4j.Record, key string) []string {
	raw, ok := rec.Get(key)
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func recordFloat(rec *neo4j.Record, key string) float64 {
	raw, ok := rec.Get(key)
	if !ok || raw == nil {
		return 0
	}
	switch n := raw.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

const resourceReturn = `RETURN r.id AS id, r.title AS title, r.description AS description,
       r.type AS type, r.categories AS categories, r.tags AS tags, score
ORDER BY score DESC, id ASC
LIMIT $limit`

func (v *Neo4jView) PopularResources(ctx context.Context, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (i:Interaction)-[:TARGET]->(r:Resource)
WITH r, sum(i.weight) AS score
WHERE score > 0
`+resourceReturn, map[string]any{"limit": limit})
}

func (v *Neo4jView) PopularResourcesExcludingUser(ctx context.Context, userID uuid.UUID, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (i:Interaction)-[:TARGET]->(r:Resource)
WHERE NOT EXISTS {
  MATCH (:User {id: $user_id})-[:PERFORMED]->(:Interaction)-[:TARGET]->(r)
}
WITH r, sum(i.weight) AS score
WHERE score > 0
`+resourceReturn, map[string]any{"user_id": userID.String(), "limit": limit})
}

func (v *Neo4jView) ResourcesMatchingTerms(ctx context.Context, terms []string, excludeUserID uuid.UUID, limit int) ([]Candidate, error) {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		lowered = append(lowered, toLowerTrim(t))
	}
	return v.queryCandidates(ctx, `
MATCH (r:Resource)
WHERE NOT EXISTS {
  MATCH (:User {id: $user_id})-[:PERFORMED]->(:Interaction)-[:TARGET]->(r)
}
WITH r,
     [c IN coalesce(r.categories, []) | toLower(c)]
   + [t IN coalesce(r.tags, []) | toLower(t)]
   + [toLower(coalesce(r.type, ''))] AS labels
WITH r, size([term IN $terms WHERE term IN labels]) AS score
WHERE score > 0
`+resourceReturn, map[string]any{
		"terms":   lowered,
		"user_id": excludeUserID.String(),
		"limit":   limit,
	})
}

func (v *Neo4jView) ResourceByID(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	candidates, err := v.queryCandidates(ctx, `
MATCH (r:Resource {id: $id})
WITH r, 0.0 AS score
`+resourceReturn, map[string]any{"id": id.String(), "limit": 1})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	c := candidates[0]
	return &c, nil
}

func (v *Neo4jView) AllResources(ctx context.Context, excludeID uuid.UUID) ([]Candidate, error) {
	records, err := v.query(ctx, `
MATCH (r:Resource)
WHERE r.id <> $exclude
RETURN r.id AS id, r.title AS title, r.description AS description,
       r.type AS type, r.categories AS categories, r.tags AS tags, 0.0 AS score
ORDER BY id ASC`, map[string]any{"exclude": excludeID.String()})
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(records))
	for _, rec := range records {
		if c, ok := candidateFromRecord(rec); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (v *Neo4jView) CoInteractionCounts(ctx context.Context, resourceID uuid.UUID) (map[uuid.UUID]float64, error) {
	records, err := v.query(ctx, `
MATCH (u:User)-[:PERFORMED]->(:Interaction)-[:TARGET]->(:Resource {id: $id})
MATCH (u)-[:PERFORMED]->(:Interaction)-[:TARGET]->(other:Resource)
WHERE other.id <> $id
RETURN other.id AS id, count(DISTINCT u) AS score`, map[string]any{"id": resourceID.String()})
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]float64, len(records))
	for _, rec := range records {
		idStr, _ := recordString(rec, "id")
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		out[id] = recordFloat(rec, "score")
	}
	return out, nil
}

func (v *Neo4jView) ResourcesRelatedToPath(ctx context.Context, pathID uuid.UUID, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (p:LearningPath {id: $id})-[:HAS_MODULE]->(:Module)-[:HAS_RESOURCE]->(src:Resource)
WITH p, collect(DISTINCT src) AS inPath
MATCH (r:Resource)
WHERE NOT r IN inPath
OPTIONAL MATCH (r)-[:HAS_CATEGORY]->(c:Category)<-[:HAS_CATEGORY]-(sc:Resource)
WHERE sc IN inPath
OPTIONAL MATCH (r)-[:HAS_TAG]->(t:Tag)<-[:HAS_TAG]-(st:Resource)
WHERE st IN inPath
WITH r, count(DISTINCT c) + count(DISTINCT t) AS score
WHERE score > 0
`+resourceReturn, map[string]any{"id": pathID.String(), "limit": limit})
}

const moduleReturn = `RETURN m.id AS id, m.title AS title, m.description AS description, score
ORDER BY score DESC, id ASC
LIMIT $limit`

func (v *Neo4jView) PopularModules(ctx context.Context, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (i:Interaction)-[:TARGET]->(m:Module)
WITH m, sum(i.weight) AS score
WHERE score > 0
`+moduleReturn, map[string]any{"limit": limit})
}

func (v *Neo4jView) ModulesContainingResource(ctx context.Context, resourceID uuid.UUID, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (m:Module)-[:HAS_RESOURCE]->(:Resource {id: $id})
WITH m, 1.0 AS score
`+moduleReturn, map[string]any{"id": resourceID.String(), "limit": limit})
}

func (v *Neo4jView) ModulesSharingCategories(ctx context.Context, resourceID uuid.UUID, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (:Resource {id: $id})-[:HAS_CATEGORY]->(c:Category)<-[:HAS_CATEGORY]-(:Resource)<-[:HAS_RESOURCE]-(m:Module)
WHERE NOT (m)-[:HAS_RESOURCE]->(:Resource {id: $id})
WITH m, count(DISTINCT c) AS score
`+moduleReturn, map[string]any{"id": resourceID.String(), "limit": limit})
}

func (v *Neo4jView) ModulesRelatedToModule(ctx context.Context, moduleID uuid.UUID, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (:Module {id: $id})-[:HAS_RESOURCE]->(r:Resource)<-[:HAS_RESOURCE]-(m:Module)
WHERE m.id <> $id
WITH m, count(DISTINCT r) AS score
`+moduleReturn, map[string]any{"id": moduleID.String(), "limit": limit})
}

func (v *Neo4jView) ModulesByCategories(ctx context.Context, categories []string, limit int) ([]Candidate, error) {
	lowered := make([]string, 0, len(categories))
	for _, c := range categories {
		lowered = append(lowered, toLowerTrim(c))
	}
	return v.queryCandidates(ctx, `
MATCH (m:Module)-[:HAS_RESOURCE]->(:Resource)-[:HAS_CATEGORY]->(c:Category)
WHERE toLower(c.name) IN $categories
WITH m, count(DISTINCT c) AS score
`+moduleReturn, map[string]any{"categories": lowered, "limit": limit})
}

const pathReturn = `RETURN p.id AS id, p.title AS title, p.summary AS description, score
ORDER BY score DESC, id ASC
LIMIT $limit`

func (v *Neo4jView) PopularPaths(ctx context.Context, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (i:Interaction)-[:TARGET]->(p:LearningPath)
WITH p, sum(i.weight) AS score
WHERE score > 0
`+pathReturn, map[string]any{"limit": limit})
}

func (v *Neo4jView) PathsContainingModule(ctx context.Context, moduleID uuid.UUID, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (p:LearningPath)-[:HAS_MODULE]->(:Module {id: $id})
WITH p, 1.0 AS score
`+pathReturn, map[string]any{"id": moduleID.String(), "limit": limit})
}

func (v *Neo4jView) PathsSharingModules(ctx context.Context, moduleID uuid.UUID, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (p1:LearningPath)-[:HAS_MODULE]->(:Module {id: $id})
MATCH (p1)-[:HAS_MODULE]->(m:Module)<-[:HAS_MODULE]-(p:LearningPath)
WHERE NOT (p)-[:HAS_MODULE]->(:Module {id: $id})
WITH p, count(DISTINCT m) AS score
`+pathReturn, map[string]any{"id": moduleID.String(), "limit": limit})
}

func (v *Neo4jView) PathsRelatedToPath(ctx context.Context, pathID uuid.UUID, limit int) ([]Candidate, error) {
	return v.queryCandidates(ctx, `
MATCH (:LearningPath {id: $id})-[:HAS_MODULE]->(m:Module)<-[:HAS_MODULE]-(p:LearningPath)
WHERE p.id <> $id
WITH p, count(DISTINCT m) AS score
`+pathReturn, map[string]any{"id": pathID.String(), "limit": limit})
}
