// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/go-a2a/agentcore/types"
)

// Schema versions understood by [SQLiteService].
const (
	// schemaVersionLegacy is the pre-JSON schema with one column per event
	// field and pickle-encoded actions.
	schemaVersionLegacy = "0"

	// schemaVersionCurrent stores each event as a single JSON event_data blob.
	schemaVersionCurrent = "1"
)

const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS adk_internal_metadata (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	app_name TEXT NOT NULL,
	user_id TEXT NOT NULL,
	id TEXT NOT NULL,
	state TEXT NOT NULL DEFAULT '{}',
	create_time REAL NOT NULL,
	update_time REAL NOT NULL,
	PRIMARY KEY (app_name, user_id, id)
);
CREATE TABLE IF NOT EXISTS events (
	id TEXT NOT NULL,
	app_name TEXT NOT NULL,
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	invocation_id TEXT,
	timestamp REAL NOT NULL,
	event_data TEXT,
	PRIMARY KEY (id, app_name, user_id, session_id),
	FOREIGN KEY (app_name, user_id, session_id)
		REFERENCES sessions (app_name, user_id, id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS app_states (
	app_name TEXT PRIMARY KEY,
	state TEXT NOT NULL DEFAULT '{}',
	update_time REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS user_states (
	app_name TEXT NOT NULL,
	user_id TEXT NOT NULL,
	state TEXT NOT NULL DEFAULT '{}',
	update_time REAL NOT NULL,
	PRIMARY KEY (app_name, user_id)
);
`

// SQLiteService is a [types.SessionService] backed by an embedded SQLite
// database via the pure-Go modernc.org/sqlite driver.
//
// The v1 schema stores each event as a single JSON event_data blob. Legacy v0
// databases (pickle-encoded actions column) are detected on first use and
// served read-mostly with a deprecation warning; their actions cannot be
// decoded.
type SQLiteService struct {
	db     *sql.DB
	logger *slog.Logger

	// schemaMu guards schema-version discovery and table creation on first use.
	schemaMu      sync.Mutex
	schemaVersion string
}

var _ types.SessionService = (*SQLiteService)(nil)

// SessionDBPath returns the database file location for an agent: a per-agent
// file under <agentsDir>/<agentName>/.adk/session.db, or the shared
// <agentsDir>/.adk/session.db when agentName is empty.
func SessionDBPath(agentsDir, agentName string) string {
	if agentName != "" {
		return filepath.Join(agentsDir, agentName, ".adk", "session.db")
	}
	return filepath.Join(agentsDir, ".adk", "session.db")
}

// NewSQLiteService opens (creating if needed) the database at path.
func NewSQLiteService(ctx context.Context, path string) (*SQLiteService, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db %s: %w", path, err)
	}
	// A single pooled connection keeps the pragma in effect for every
	// statement and serialises writers on the file.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &SQLiteService{
		db:     db,
		logger: slog.Default(),
	}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// ensureSchema probes the schema version and creates the v1 tables on a fresh
// database.
func (s *SQLiteService) ensureSchema(ctx context.Context) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()

	if s.schemaVersion != "" {
		return nil
	}

	var version string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM adk_internal_metadata WHERE key = 'schema_version'`).Scan(&version)
	switch {
	case err == nil:
		s.schemaVersion = version
		return nil
	case errors.Is(err, sql.ErrNoRows) || isMissingTableErr(err):
		// fall through to legacy probe / creation
	default:
		return fmt.Errorf("read schema version: %w", err)
	}

	legacy, err := s.hasLegacyEventsTable(ctx)
	if err != nil {
		return err
	}
	if legacy {
		s.logger.WarnContext(ctx, "Session database uses the deprecated v0 schema; event actions cannot be decoded. Re-create the database to migrate to v1.")
		s.schemaVersion = schemaVersionLegacy
		return nil
	}

	if _, err := s.db.ExecContext(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("create session schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO adk_internal_metadata (key, value) VALUES ('schema_version', ?)`,
		schemaVersionCurrent); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	s.schemaVersion = schemaVersionCurrent

	return nil
}

// hasLegacyEventsTable reports whether an events table with the v0 pickle
// actions column exists.
func (s *SQLiteService) hasLegacyEventsTable(ctx context.Context) (bool, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(events)`)
	if err != nil {
		return false, fmt.Errorf("inspect events table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == "actions" {
			return true, nil
		}
	}

	return false, rows.Err()
}

func isMissingTableErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}

// timestamps are stored as REAL unix seconds.

func toUnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func fromUnixSeconds(f float64) time.Time {
	return time.Unix(0, int64(f*1e9)).UTC()
}

func encodeJSON(v any) (string, error) {
	b, err := sonic.ConfigFastest.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateSession implements [types.SessionService].
func (s *SQLiteService) CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (types.Session, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	s.logger.InfoContext(ctx, "Creating session",
		slog.String("app_name", appName),
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	appDelta := make(map[string]any)
	userDelta := make(map[string]any)
	sessionState := make(map[string]any)
	for key, value := range state {
		switch {
		case strings.HasPrefix(key, types.AppPrefix):
			appDelta[strings.TrimPrefix(key, types.AppPrefix)] = value
		case strings.HasPrefix(key, types.UserPrefix):
			userDelta[strings.TrimPrefix(key, types.UserPrefix)] = value
		case strings.HasPrefix(key, types.TempPrefix):
			// never persisted
		default:
			sessionState[key] = value
		}
	}

	now := time.Now()
	nowF := toUnixSeconds(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create session: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM sessions WHERE app_name = ? AND user_id = ? AND id = ?`,
		appName, userID, sessionID).Scan(&exists)
	switch {
	case err == nil:
		return nil, &types.AlreadyExistsError{
			Message: fmt.Sprintf("session %s already exists for user %s in app %s", sessionID, userID, appName),
		}
	case errors.Is(err, sql.ErrNoRows):
		// free to create
	default:
		return nil, fmt.Errorf("probe session: %w", err)
	}

	stateJSON, err := encodeJSON(sessionState)
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (app_name, user_id, id, state, create_time, update_time) VALUES (?, ?, ?, ?, ?, ?)`,
		appName, userID, sessionID, stateJSON, nowF, nowF); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	if err := applyScopeDeltas(ctx, tx, appName, userID, appDelta, userDelta, nowF); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create session: %w", err)
	}

	return s.GetSession(ctx, appName, userID, sessionID, nil)
}

// applyScopeDeltas upserts the app and user scope states with json_patch so
// keys outside the delta survive.
func applyScopeDeltas(ctx context.Context, tx *sql.Tx, appName, userID string, appDelta, userDelta map[string]any, nowF float64) error {
	if len(appDelta) > 0 {
		deltaJSON, err := encodeJSON(appDelta)
		if err != nil {
			return fmt.Errorf("encode app state delta: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO app_states (app_name, state, update_time) VALUES (?, ?, ?)
ON CONFLICT (app_name) DO UPDATE SET state = json_patch(state, excluded.state), update_time = excluded.update_time`,
			appName, deltaJSON, nowF); err != nil {
			return fmt.Errorf("upsert app state: %w", err)
		}
	}

	if len(userDelta) > 0 {
		deltaJSON, err := encodeJSON(userDelta)
		if err != nil {
			return fmt.Errorf("encode user state delta: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO user_states (app_name, user_id, state, update_time) VALUES (?, ?, ?, ?)
ON CONFLICT (app_name, user_id) DO UPDATE SET state = json_patch(state, excluded.state), update_time = excluded.update_time`,
			appName, userID, deltaJSON, nowF); err != nil {
			return fmt.Errorf("upsert user state: %w", err)
		}
	}

	return nil
}

// GetSession implements [types.SessionService].
func (s *SQLiteService) GetSession(ctx context.Context, appName, userID, sessionID string, config *types.GetSessionConfig) (types.Session, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var (
		stateJSON  string
		updateTime float64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT state, update_time FROM sessions WHERE app_name = ? AND user_id = ? AND id = ?`,
		appName, userID, sessionID).Scan(&stateJSON, &updateTime)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("query session: %w", err)
	}

	var sessionState map[string]any
	if err := sonic.ConfigFastest.Unmarshal([]byte(stateJSON), &sessionState); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}

	events, err := s.querySessionEvents(ctx, appName, userID, sessionID, config)
	if err != nil {
		return nil, err
	}

	ses := NewSession(appName, userID, sessionID, sessionState, fromUnixSeconds(updateTime))
	ses.AddEvent(events...)

	return s.mergeScopeState(ctx, appName, userID, ses)
}

// querySessionEvents fetches the (optionally constrained) events of a session
// in ascending timestamp order.
func (s *SQLiteService) querySessionEvents(ctx context.Context, appName, userID, sessionID string, config *types.GetSessionConfig) ([]*types.Event, error) {
	query := `SELECT id, invocation_id, timestamp, event_data FROM events WHERE app_name = ? AND user_id = ? AND session_id = ?`
	args := []any{appName, userID, sessionID}

	if config != nil && !config.AfterTimestamp.IsZero() {
		query += ` AND timestamp > ?`
		args = append(args, toUnixSeconds(config.AfterTimestamp))
	}
	// Most recent first so LIMIT keeps the tail; reversed below.
	query += ` ORDER BY timestamp DESC`
	if config != nil && config.NumRecentEvents > 0 {
		query += ` LIMIT ?`
		args = append(args, config.NumRecentEvents)
	}

	if s.schemaVersion == schemaVersionLegacy {
		return s.queryLegacyEvents(ctx, appName, userID, sessionID, config)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*types.Event
	for rows.Next() {
		var (
			id           string
			invocationID sql.NullString
			timestamp    float64
			eventData    sql.NullString
		)
		if err := rows.Scan(&id, &invocationID, &timestamp, &eventData); err != nil {
			return nil, err
		}

		event := &types.Event{LLMResponse: new(types.LLMResponse)}
		if eventData.Valid && eventData.String != "" {
			if err := sonic.ConfigFastest.Unmarshal([]byte(eventData.String), event); err != nil {
				return nil, fmt.Errorf("decode event %s: %w", id, err)
			}
		}
		event.ID = id
		event.InvocationID = invocationID.String
		event.Timestamp = fromUnixSeconds(timestamp)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// restore ascending order
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}

	return events, nil
}

// queryLegacyEvents reads the v0 per-column layout. The pickle-encoded
// actions column is skipped; a decode warning is logged once per query.
func (s *SQLiteService) queryLegacyEvents(ctx context.Context, appName, userID, sessionID string, config *types.GetSessionConfig) ([]*types.Event, error) {
	query := `SELECT id, invocation_id, author, timestamp, content FROM events WHERE app_name = ? AND user_id = ? AND session_id = ?`
	args := []any{appName, userID, sessionID}
	if config != nil && !config.AfterTimestamp.IsZero() {
		query += ` AND timestamp > ?`
		args = append(args, toUnixSeconds(config.AfterTimestamp))
	}
	query += ` ORDER BY timestamp DESC`
	if config != nil && config.NumRecentEvents > 0 {
		query += ` LIMIT ?`
		args = append(args, config.NumRecentEvents)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query legacy events: %w", err)
	}
	defer rows.Close()

	warned := false
	var events []*types.Event
	for rows.Next() {
		var (
			id           string
			invocationID sql.NullString
			author       sql.NullString
			timestamp    float64
			contentJSON  sql.NullString
		)
		if err := rows.Scan(&id, &invocationID, &author, &timestamp, &contentJSON); err != nil {
			return nil, err
		}

		event := &types.Event{
			LLMResponse:  new(types.LLMResponse),
			ID:           id,
			InvocationID: invocationID.String,
			Author:       author.String,
			Timestamp:    fromUnixSeconds(timestamp),
		}
		if contentJSON.Valid && contentJSON.String != "" {
			var contentMap map[string]any
			if err := sonic.ConfigFastest.Unmarshal([]byte(contentJSON.String), &contentMap); err == nil {
				if content, err := types.DecodeContent(contentMap); err == nil {
					event.Content = content
				}
			}
		}
		if !warned {
			s.logger.WarnContext(ctx, "Legacy v0 events: actions column is pickle-encoded and was not decoded",
				slog.String("session_id", sessionID))
			warned = true
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}

	return events, nil
}

// mergeScopeState overlays the app and user scope stores onto the session view.
func (s *SQLiteService) mergeScopeState(ctx context.Context, appName, userID string, ses *session) (*session, error) {
	var appJSON string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM app_states WHERE app_name = ?`, appName).Scan(&appJSON)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query app state: %w", err)
	}
	if appJSON != "" {
		var appState map[string]any
		if err := sonic.ConfigFastest.Unmarshal([]byte(appJSON), &appState); err != nil {
			return nil, fmt.Errorf("decode app state: %w", err)
		}
		for key, value := range appState {
			ses.state[types.AppPrefix+key] = value
		}
	}

	var userJSON string
	err = s.db.QueryRowContext(ctx, `SELECT state FROM user_states WHERE app_name = ? AND user_id = ?`, appName, userID).Scan(&userJSON)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query user state: %w", err)
	}
	if userJSON != "" {
		var userState map[string]any
		if err := sonic.ConfigFastest.Unmarshal([]byte(userJSON), &userState); err != nil {
			return nil, fmt.Errorf("decode user state: %w", err)
		}
		for key, value := range userState {
			ses.state[types.UserPrefix+key] = value
		}
	}

	return ses, nil
}

// ListSessions implements [types.SessionService]. An empty userID lists the
// sessions of every user of the app.
func (s *SQLiteService) ListSessions(ctx context.Context, appName, userID string) ([]types.Session, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	query := `SELECT user_id, id, update_time FROM sessions WHERE app_name = ?`
	args := []any{appName}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY update_time DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []types.Session{}
	for rows.Next() {
		var (
			uid        string
			id         string
			updateTime float64
		)
		if err := rows.Scan(&uid, &id, &updateTime); err != nil {
			return nil, err
		}
		sessions = append(sessions, NewSession(appName, uid, id, nil, fromUnixSeconds(updateTime)))
	}

	return sessions, rows.Err()
}

// DeleteSession implements [types.SessionService]. Events cascade via the
// foreign key.
func (s *SQLiteService) DeleteSession(ctx context.Context, appName, userID, sessionID string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE app_name = ? AND user_id = ? AND id = ?`,
		appName, userID, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// AppendEvent implements [types.SessionService].
//
// The event row and its state delta commit in one transaction; the stale
// check serialises concurrent appends to the same session.
func (s *SQLiteService) AppendEvent(ctx context.Context, ses types.Session, event *types.Event) (*types.Event, error) {
	if event.IsPartial() {
		return event, nil
	}
	trimTempStateDelta(event)
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if s.schemaVersion == schemaVersionLegacy {
		return nil, fmt.Errorf("append to legacy v0 session database is not supported; re-create the database")
	}

	appName := ses.AppName()
	userID := ses.UserID()
	sessionID := ses.ID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append event: %w", err)
	}
	defer tx.Rollback()

	var storageUpdate float64
	err = tx.QueryRowContext(ctx,
		`SELECT update_time FROM sessions WHERE app_name = ? AND user_id = ? AND id = ?`,
		appName, userID, sessionID).Scan(&storageUpdate)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, &types.ResourceNotFoundError{
			Resource: "session",
			Message:  fmt.Sprintf("%s for user %s in app %s", sessionID, userID, appName),
		}
	case err != nil:
		return nil, fmt.Errorf("query session update time: %w", err)
	}

	// Strictly newer storage means another writer won; the caller refetches.
	if storageUpdate > toUnixSeconds(ses.LastUpdateTime())+1e-6 {
		return nil, &types.StaleSessionError{
			SessionID:   sessionID,
			StorageTime: fromUnixSeconds(storageUpdate),
			SessionTime: ses.LastUpdateTime(),
		}
	}

	appDelta := make(map[string]any)
	userDelta := make(map[string]any)
	sessionDelta := make(map[string]any)
	if event.Actions != nil {
		for key, value := range event.Actions.StateDelta {
			switch {
			case strings.HasPrefix(key, types.AppPrefix):
				appDelta[strings.TrimPrefix(key, types.AppPrefix)] = value
			case strings.HasPrefix(key, types.UserPrefix):
				userDelta[strings.TrimPrefix(key, types.UserPrefix)] = value
			default:
				sessionDelta[key] = value
			}
		}
	}

	eventTimeF := toUnixSeconds(event.Timestamp)

	if err := applyScopeDeltas(ctx, tx, appName, userID, appDelta, userDelta, eventTimeF); err != nil {
		return nil, err
	}

	if len(sessionDelta) > 0 {
		deltaJSON, err := encodeJSON(sessionDelta)
		if err != nil {
			return nil, fmt.Errorf("encode session state delta: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET state = json_patch(state, ?), update_time = ? WHERE app_name = ? AND user_id = ? AND id = ?`,
			deltaJSON, eventTimeF, appName, userID, sessionID); err != nil {
			return nil, fmt.Errorf("patch session state: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET update_time = ? WHERE app_name = ? AND user_id = ? AND id = ?`,
			eventTimeF, appName, userID, sessionID); err != nil {
			return nil, fmt.Errorf("touch session: %w", err)
		}
	}

	eventJSON, err := encodeJSON(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, app_name, user_id, session_id, invocation_id, timestamp, event_data) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, appName, userID, sessionID, event.InvocationID, eventTimeF, eventJSON); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append event: %w", err)
	}

	ses.AddEvent(event)
	ses.SetLastUpdateTime(event.Timestamp)

	// Keep the caller's merged view in line with the committed delta.
	if event.Actions != nil {
		for key, value := range event.Actions.StateDelta {
			ses.State()[key] = value
		}
	}

	return event, nil
}

// ListEvents implements [types.SessionService].
func (s *SQLiteService) ListEvents(ctx context.Context, appName, userID, sessionID string, maxEvents int, since *time.Time) (*types.ListEventsResponse, error) {
	config := &types.GetSessionConfig{NumRecentEvents: maxEvents}
	if since != nil {
		config.AfterTimestamp = *since
	}

	events, err := s.querySessionEvents(ctx, appName, userID, sessionID, config)
	if err != nil {
		return nil, err
	}

	return &types.ListEventsResponse{Events: events}, nil
}

// Close implements [types.SessionService].
func (s *SQLiteService) Close() error {
	return s.db.Close()
}
