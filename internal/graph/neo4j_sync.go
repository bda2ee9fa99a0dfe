package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/learnloop/learnloop-backend/internal/platform/logger"
	"github.com/learnloop/learnloop-backend/internal/platform/neo4jdb"
)

var schemaStatements = []string{
	`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
	`CREATE CONSTRAINT resource_id_unique IF NOT EXISTS FOR (r:Resource) REQUIRE r.id IS UNIQUE`,
	`CREATE CONSTRAINT module_id_unique IF NOT EXISTS FOR (m:Module) REQUIRE m.id IS UNIQUE`,
	`CREATE CONSTRAINT path_id_unique IF NOT EXISTS FOR (p:LearningPath) REQUIRE p.id IS UNIQUE`,
	`CREATE CONSTRAINT interaction_id_unique IF NOT EXISTS FOR (i:Interaction) REQUIRE i.id IS UNIQUE`,
	`CREATE CONSTRAINT category_name_unique IF NOT EXISTS FOR (c:Category) REQUIRE c.name IS UNIQUE`,
	`CREATE CONSTRAINT tag_name_unique IF NOT EXISTS FOR (t:Tag) REQUIRE t.name IS UNIQUE`,
}

// initSchema is best-effort; restricted users may not be allowed to create
// constraints and the sync still proceeds.
func initSchema(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) {
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

// writeRows runs one UNWIND-based merge statement in its own write session.
func writeRows(ctx context.Context, client *neo4jdb.Client, cypher string, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"rows": rows})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func upsertUserNodes(ctx context.Context, client *neo4jdb.Client, rows []map[string]any) error {
	return writeRows(ctx, client, `
UNWIND $rows AS row
MERGE (u:User {id: row.id})
SET u.education_level = row.education_level,
    u.field_of_study = row.field_of_study,
    u.topic_interests = row.topic_interests,
    u.preferred_content_types = row.preferred_content_types,
    u.language = row.language,
    u.synced_at = row.synced_at
`, rows)
}

func upsertResourceNodes(ctx context.Context, client *neo4jdb.Client, rows []map[string]any) error {
	if err := writeRows(ctx, client, `
UNWIND $rows AS row
MERGE (r:Resource {id: row.id})
SET r.title = row.title,
    r.description = row.description,
    r.type = row.type,
    r.categories = row.categories,
    r.tags = row.tags,
    r.format = row.format,
    r.visibility = row.visibility,
    r.synced_at = row.synced_at
`, rows); err != nil {
		return err
	}
	return writeRows(ctx, client, `
UNWIND $rows AS row
MATCH (r:Resource {id: row.id})
FOREACH (name IN row.categories |
  MERGE (c:Category {name: name})
  MERGE (r)-[:HAS_CATEGORY]->(c))
FOREACH (name IN row.tags |
  MERGE (t:Tag {name: name})
  MERGE (r)-[:HAS_TAG]->(t))
FOREACH (name IN CASE WHEN row.type <> '' THEN [row.type] ELSE [] END |
  MERGE (rt:ResourceType {name: name})
  MERGE (r)-[:OF_TYPE]->(rt))
`, rows)
}

func upsertModuleNodes(ctx context.Context, client *neo4jdb.Client, rows []map[string]any) error {
	return writeRows(ctx, client, `
UNWIND $rows AS row
MERGE (m:Module {id: row.id})
SET m.title = row.title,
    m.description = row.description,
    m.estimated_duration = row.estimated_duration,
    m.synced_at = row.synced_at
`, rows)
}

func upsertModuleResourceEdges(ctx context.Context, client *neo4jdb.Client, rows []map[string]any) error {
	return writeRows(ctx, client, `
UNWIND $rows AS row
MERGE (m:Module {id: row.module_id})
MERGE (r:Resource {id: row.resource_id})
MERGE (m)-[e:HAS_RESOURCE]->(r)
SET e.position = row.position,
    e.synced_at = row.synced_at
`, rows)
}

func upsertPathNodes(ctx context.Context, client *neo4jdb.Client, rows []map[string]any) error {
	return writeRows(ctx, client, `
UNWIND $rows AS row
MERGE (p:LearningPath {id: row.id})
SET p.title = row.title,
    p.summary = row.summary,
    p.visibility = row.visibility,
    p.estimated_duration = row.estimated_duration,
    p.credit_value = row.credit_value,
    p.synced_at = row.synced_at
`, rows)
}

func upsertPathModuleEdges(ctx context.Context, client *neo4jdb.Client, rows []map[string]any) error {
	return writeRows(ctx, client, `
UNWIND $rows AS row
MERGE (p:LearningPath {id: row.path_id})
MERGE (m:Module {id: row.module_id})
MERGE (p)-[e:HAS_MODULE]->(m)
SET e.position = row.position,
    e.synced_at = row.synced_at
`, rows)
}

// upsertInteractions merges Interaction nodes plus PERFORMED and TARGET
// edges. The target label varies per row batch, so the caller splits rows
// by target type.
func upsertInteractions(ctx context.Context, client *neo4jdb.Client, targetLabel string, rows []map[string]any) error {
	cypher := fmt.Sprintf(`
UNWIND $rows AS row
MERGE (i:Interaction {id: row.id})
SET i.type = row.type,
    i.occurred_at = row.occurred_at,
    i.weight = row.weight,
    i.synced_at = row.synced_at
MERGE (u:User {id: row.user_id})
MERGE (u)-[:PERFORMED]->(i)
MERGE (t:%s {id: row.target_id})
MERGE (i)-[:TARGET]->(t)
`, targetLabel)
	return writeRows(ctx, client, cypher, rows)
}

func upsertBookmarkEdges(ctx context.Context, client *neo4jdb.Client, rows []map[string]any) error {
	return writeRows(ctx, client, `
UNWIND $rows AS row
MERGE (u:User {id: row.user_id})
MERGE (r:Resource {id: row.resource_id})
MERGE (u)-[b:BOOKMARKED]->(r)
SET b.synced_at = row.synced_at
`, rows)
}
