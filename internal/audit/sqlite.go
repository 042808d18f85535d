package audit

// #region imports
import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS suggestion_log (
	suggestion_id      TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL,
	organization_id    TEXT NOT NULL,
	intent             TEXT NOT NULL,
	regulatory_context TEXT NOT NULL,
	prompt             TEXT NOT NULL,
	response           TEXT,
	source_refs        TEXT NOT NULL,
	status             TEXT NOT NULL,
	error_message      TEXT,
	verification       TEXT NOT NULL,
	confidence         REAL NOT NULL DEFAULT 0,
	created_at         TEXT NOT NULL,
	override_decision  TEXT NOT NULL DEFAULT 'pending',
	modified_content   TEXT,
	rejection_reason   TEXT,
	decided_at         TEXT
);

CREATE INDEX IF NOT EXISTS idx_suggestion_log_user
ON suggestion_log(user_id, created_at);

CREATE INDEX IF NOT EXISTS idx_suggestion_log_org
ON suggestion_log(organization_id, created_at);
`

// #endregion schema

// #region sink-struct

// SQLiteSink persists the suggestion log in SQLite. Only Append and
// RecordDecision can write, so nothing outside the decision region is
// reachable after creation.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens the audit database and ensures the schema exists.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// #endregion sink-struct

// #region append

// Append writes the canonical record for one suggestion. The decision
// region starts as pending; everything else is final.
func (s *SQLiteSink) Append(ctx context.Context, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO suggestion_log
		 (suggestion_id, user_id, organization_id, intent, regulatory_context,
		  prompt, response, source_refs, status, error_message, verification,
		  confidence, created_at, override_decision)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending')`,
		rec.SuggestionID,
		rec.UserID,
		rec.OrganizationID,
		rec.Intent,
		rec.RegulatoryContext,
		rec.Prompt,
		nullIfEmpty(rec.Response),
		rec.SourceRefs,
		string(rec.Status),
		nullIfEmpty(rec.ErrorMessage),
		rec.Verification,
		rec.Confidence,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append suggestion log: %w", err)
	}
	return nil
}

// #endregion append

// #region record-decision

// RecordDecision sets the decision region exactly once. The UPDATE is a
// compare-and-swap on "decision still pending", so two concurrent calls
// cannot both land.
func (s *SQLiteSink) RecordDecision(ctx context.Context, suggestionID, userID string, decision Decision, modifiedContent, rejectionReason string) error {
	if !decision.Valid() {
		return fmt.Errorf("invalid decision %q", decision)
	}

	var owner string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM suggestion_log WHERE suggestion_id = ?`, suggestionID,
	).Scan(&owner)
	if err == sql.ErrNoRows {
		return fmt.Errorf("suggestion %s: %w", suggestionID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup suggestion %s: %w", suggestionID, err)
	}
	if owner != userID {
		return fmt.Errorf("suggestion %s: %w", suggestionID, ErrNotRequester)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE suggestion_log
		 SET override_decision = ?, modified_content = ?, rejection_reason = ?, decided_at = ?
		 WHERE suggestion_id = ? AND user_id = ? AND override_decision = 'pending'`,
		string(decision),
		nullIfEmpty(modifiedContent),
		nullIfEmpty(rejectionReason),
		time.Now().UTC().Format(time.RFC3339Nano),
		suggestionID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("suggestion %s: %w", suggestionID, ErrAlreadyDecided)
	}
	return nil
}

// #endregion record-decision

// #region history

// History returns a user's suggestion records, newest first.
func (s *SQLiteSink) History(ctx context.Context, userID string, filter HistoryFilter) ([]Record, error) {
	q := `SELECT suggestion_id, user_id, organization_id, intent, regulatory_context,
	             prompt, response, source_refs, status, error_message, verification,
	             confidence, created_at, override_decision, modified_content, rejection_reason, decided_at
	      FROM suggestion_log WHERE user_id = ?`
	args := []interface{}{userID}

	if filter.Intent != "" {
		q += " AND intent = ?"
		args = append(args, filter.Intent)
	}
	if filter.Status != "" {
		q += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if !filter.Since.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}
	q += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion history

// #region usage-analytics

// UsageAnalytics aggregates an organization's activity over a time range.
func (s *SQLiteSink) UsageAnalytics(ctx context.Context, organizationID string, from, to time.Time) (Usage, error) {
	var u Usage
	var avg sql.NullFloat64

	err := s.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'fallback' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN override_decision = 'accepted' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN override_decision = 'modified' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN override_decision = 'rejected' THEN 1 ELSE 0 END), 0),
			AVG(CASE WHEN status = 'success' THEN confidence END)
		 FROM suggestion_log
		 WHERE organization_id = ? AND created_at >= ? AND created_at < ?`,
		organizationID,
		from.UTC().Format(time.RFC3339Nano),
		to.UTC().Format(time.RFC3339Nano),
	).Scan(&u.Total, &u.Success, &u.Fallback, &u.Errors,
		&u.Accepted, &u.Modified, &u.Rejected, &avg)
	if err != nil {
		return Usage{}, fmt.Errorf("usage analytics: %w", err)
	}

	if avg.Valid {
		u.AvgConfidence = avg.Float64
	}
	if u.Total > 0 {
		u.FallbackRate = float64(u.Fallback+u.Errors) / float64(u.Total)
	}
	return u, nil
}

// #endregion usage-analytics

// #region scan

func scanRecord(rows *sql.Rows) (Record, error) {
	var rec Record
	var response, errMsg, modified, rejection, decidedAt sql.NullString
	var status, decision, createdStr string

	err := rows.Scan(&rec.SuggestionID, &rec.UserID, &rec.OrganizationID, &rec.Intent,
		&rec.RegulatoryContext, &rec.Prompt, &response, &rec.SourceRefs, &status,
		&errMsg, &rec.Verification, &rec.Confidence, &createdStr,
		&decision, &modified, &rejection, &decidedAt)
	if err != nil {
		return Record{}, err
	}

	rec.Status = Status(status)
	rec.Decision = Decision(decision)
	if response.Valid {
		rec.Response = response.String
	}
	if errMsg.Valid {
		rec.ErrorMessage = errMsg.String
	}
	if modified.Valid {
		rec.ModifiedContent = modified.String
	}
	if rejection.Valid {
		rec.RejectionReason = rejection.String
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	if decidedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, decidedAt.String)
		if err == nil {
			rec.DecidedAt = &t
		}
	}
	return rec, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion scan
