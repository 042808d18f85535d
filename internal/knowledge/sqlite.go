package knowledge

// #region imports
import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS policy_templates (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	content        TEXT NOT NULL,
	version        TEXT NOT NULL,
	section        TEXT,
	jurisdictions  TEXT NOT NULL,
	standard_codes TEXT NOT NULL,
	verification   TEXT NOT NULL,
	active         INTEGER NOT NULL DEFAULT 1,
	updated_at     TEXT NOT NULL,
	metadata       TEXT
);

CREATE TABLE IF NOT EXISTS compliance_standards (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	content        TEXT NOT NULL,
	version        TEXT NOT NULL,
	section        TEXT,
	jurisdictions  TEXT NOT NULL,
	standard_codes TEXT NOT NULL,
	verification   TEXT NOT NULL,
	active         INTEGER NOT NULL DEFAULT 1,
	updated_at     TEXT NOT NULL,
	metadata       TEXT
);

CREATE TABLE IF NOT EXISTS jurisdictional_rules (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	content        TEXT NOT NULL,
	version        TEXT NOT NULL,
	section        TEXT,
	jurisdictions  TEXT NOT NULL,
	standard_codes TEXT NOT NULL,
	verification   TEXT NOT NULL,
	active         INTEGER NOT NULL DEFAULT 1,
	updated_at     TEXT NOT NULL,
	metadata       TEXT
);
`

// #endregion schema

// #region store-struct

// SQLiteStore is a Store backed by a local SQLite knowledge base.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the knowledge database and ensures the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open knowledge db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// #endregion store-struct

// #region queries

// QueryTemplates searches the policy template collection.
func (s *SQLiteStore) QueryTemplates(ctx context.Context, criteria FilterCriteria) ([]RawDocument, error) {
	return s.query(ctx, "policy_templates", SourceTemplate, criteria)
}

// QueryStandards searches the compliance standard collection.
func (s *SQLiteStore) QueryStandards(ctx context.Context, criteria FilterCriteria) ([]RawDocument, error) {
	return s.query(ctx, "compliance_standards", SourceStandard, criteria)
}

// QueryRules searches the jurisdictional rule collection.
func (s *SQLiteStore) QueryRules(ctx context.Context, criteria FilterCriteria) ([]RawDocument, error) {
	return s.query(ctx, "jurisdictional_rules", SourceRule, criteria)
}

func (s *SQLiteStore) query(ctx context.Context, table string, src SourceType, criteria FilterCriteria) ([]RawDocument, error) {
	q := fmt.Sprintf(
		`SELECT id, title, content, version, section, jurisdictions, standard_codes, verification, updated_at, metadata
		 FROM %s WHERE (active = 1 OR ?) ORDER BY id`, table)

	rows, err := s.db.QueryContext(ctx, q, criteria.IncludeDeprecated)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var docs []RawDocument
	for rows.Next() {
		doc, err := scanDocument(rows, src)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		if !matches(doc, criteria) {
			continue
		}
		docs = append(docs, doc)
		if criteria.Limit > 0 && len(docs) >= criteria.Limit {
			break
		}
	}
	return docs, rows.Err()
}

// #endregion queries

// #region matching

// matches applies the jurisdiction-intersection, standards and keyword
// filters. Tag matching happens in Go because tags are stored as JSON
// arrays; the collections are small enough that a scan is fine.
func matches(doc RawDocument, criteria FilterCriteria) bool {
	if len(criteria.Jurisdictions) > 0 && !intersects(doc.Jurisdictions, criteria.Jurisdictions) {
		return false
	}
	if len(criteria.StandardCodes) > 0 && len(doc.StandardCodes) > 0 &&
		!intersects(doc.StandardCodes, criteria.StandardCodes) {
		return false
	}
	if len(criteria.Keywords) > 0 {
		text := strings.ToLower(doc.Title + " " + doc.Content)
		found := false
		for _, kw := range criteria.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func intersects(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[strings.ToLower(v)] = true
	}
	for _, v := range b {
		if set[strings.ToLower(v)] {
			return true
		}
	}
	return false
}

// #endregion matching

// #region put

// Put inserts or replaces a document in the collection matching its
// SourceType. Used by the seeding tool and tests; the runtime pipeline
// never writes to the knowledge base.
func (s *SQLiteStore) Put(ctx context.Context, doc RawDocument) error {
	table, ok := map[SourceType]string{
		SourceTemplate: "policy_templates",
		SourceStandard: "compliance_standards",
		SourceRule:     "jurisdictional_rules",
	}[doc.SourceType]
	if !ok {
		return fmt.Errorf("no collection for source type %q", doc.SourceType)
	}

	jur, err := json.Marshal(doc.Jurisdictions)
	if err != nil {
		return fmt.Errorf("marshal jurisdictions: %w", err)
	}
	codes, err := json.Marshal(doc.StandardCodes)
	if err != nil {
		return fmt.Errorf("marshal standard codes: %w", err)
	}
	var meta interface{}
	if len(doc.Metadata) > 0 {
		b, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		meta = string(b)
	}

	active := 1
	if doc.Verification == VerificationDeprecated {
		active = 0
	}

	q := fmt.Sprintf(
		`INSERT OR REPLACE INTO %s
		 (id, title, content, version, section, jurisdictions, standard_codes, verification, active, updated_at, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, table)
	_, err = s.db.ExecContext(ctx, q,
		doc.ID, doc.Title, doc.Content, doc.Version, doc.Section,
		string(jur), string(codes), string(doc.Verification), active,
		doc.UpdatedAt.UTC().Format(time.RFC3339Nano), meta,
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}

// #endregion put

// #region scan

func scanDocument(rows *sql.Rows, src SourceType) (RawDocument, error) {
	var doc RawDocument
	var section, metadata sql.NullString
	var jurJSON, codesJSON, verification, updatedStr string

	err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Version, &section,
		&jurJSON, &codesJSON, &verification, &updatedStr, &metadata)
	if err != nil {
		return RawDocument{}, err
	}

	doc.SourceType = src
	if section.Valid {
		doc.Section = section.String
	}
	if err := json.Unmarshal([]byte(jurJSON), &doc.Jurisdictions); err != nil {
		return RawDocument{}, fmt.Errorf("unmarshal jurisdictions: %w", err)
	}
	if err := json.Unmarshal([]byte(codesJSON), &doc.StandardCodes); err != nil {
		return RawDocument{}, fmt.Errorf("unmarshal standard codes: %w", err)
	}
	doc.Verification = VerificationStatus(verification)
	doc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	if metadata.Valid {
		if err := json.Unmarshal([]byte(metadata.String), &doc.Metadata); err != nil {
			return RawDocument{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return doc, nil
}

// #endregion scan
