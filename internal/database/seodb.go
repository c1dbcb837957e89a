package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/seocrawl/internal/model"
)

// dbFileName is the SQLite file created inside the configured directory.
const dbFileName = "seocrawl.db"

// SEODB provides SQLite-based storage for crawl sessions.
// It manages connection pooling and provides methods for persisting and
// querying sessions, pages, keywords, links, and images.
//
// Design decision: one database file accumulating all sessions, rather than
// a file per session. Cross-session queries (keyword trends, re-crawl
// comparisons) stay simple, and backup is a single file copy.
type SEODB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SEODB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SEODB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*SEODB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids lock
	// contention errors under concurrent use.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SEODB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SEODB) Close() error {
	return sdb.db.Close()
}

// Path returns the location of the database file.
func (sdb *SEODB) Path() string {
	return sdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SEODB) createTables() error {
	schema := `
	-- Sessions store one row per crawl run with its accounting
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		stopped INTEGER NOT NULL DEFAULT 0,
		seeds TEXT NOT NULL,
		config_json TEXT,
		fetched INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		robots_denied INTEGER NOT NULL DEFAULT 0,
		keyword_count INTEGER NOT NULL DEFAULT 0,
		link_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);

	-- Pages store one row per fetched and extracted page
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL REFERENCES sessions(id),
		url TEXT NOT NULL,
		domain TEXT NOT NULL,
		status_code INTEGER,
		depth INTEGER NOT NULL,
		parent TEXT,
		title TEXT,
		h1 TEXT,
		meta_description TEXT,
		canonical_url TEXT,
		language TEXT,
		headings TEXT,
		word_count INTEGER NOT NULL DEFAULT 0,
		content_hash TEXT,
		response_time_ms INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME,
		UNIQUE(session_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_session ON pages(session_id);
	CREATE INDEX IF NOT EXISTS idx_pages_domain ON pages(domain);
	CREATE INDEX IF NOT EXISTS idx_pages_hash ON pages(content_hash);

	-- Keywords store per-page term statistics with corpus TF-IDF scores
	CREATE TABLE IF NOT EXISTS keywords (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL REFERENCES sessions(id),
		page_id INTEGER NOT NULL REFERENCES pages(id),
		term TEXT NOT NULL,
		is_ngram INTEGER NOT NULL DEFAULT 0,
		ngram_size INTEGER NOT NULL DEFAULT 1,
		frequency INTEGER NOT NULL,
		density REAL NOT NULL,
		tfidf REAL NOT NULL DEFAULT 0,
		in_title INTEGER NOT NULL DEFAULT 0,
		in_h1 INTEGER NOT NULL DEFAULT 0,
		in_first_100 INTEGER NOT NULL DEFAULT 0,
		stuffed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_keywords_session ON keywords(session_id);
	CREATE INDEX IF NOT EXISTS idx_keywords_page ON keywords(page_id);
	CREATE INDEX IF NOT EXISTS idx_keywords_term ON keywords(term);

	-- Links store outbound links discovered per page
	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		page_id INTEGER NOT NULL REFERENCES pages(id),
		url TEXT NOT NULL,
		anchor_text TEXT,
		internal INTEGER NOT NULL DEFAULT 0,
		nofollow INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_links_page ON links(page_id);

	-- Images store image references discovered per page
	CREATE TABLE IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		page_id INTEGER NOT NULL REFERENCES pages(id),
		url TEXT NOT NULL,
		alt TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_images_page ON images(page_id);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveSession persists a complete session result in one transaction and
// sets result.Session.ID to the new row id. Keywords are stored against
// their page row; the index alignment of result.Pages and result.Keywords
// carries the association.
func (sdb *SEODB) SaveSession(ctx context.Context, result *model.SessionResult) (int64, error) {
	seedsJSON, err := json.Marshal(result.Session.Seeds)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize seeds: %w", err)
	}
	configJSON, err := json.Marshal(result.Session.ConfigSnapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize config snapshot: %w", err)
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	counters := result.Session.Counters
	res, err := tx.ExecContext(ctx, `
	INSERT INTO sessions (started_at, finished_at, stopped, seeds, config_json,
		fetched, failed, skipped, robots_denied, keyword_count, link_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Session.StartedAt.UTC().Format(time.RFC3339Nano),
		result.Session.FinishedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(result.Session.Stopped),
		string(seedsJSON),
		string(configJSON),
		counters.Fetched,
		counters.Failed,
		counters.Skipped,
		counters.RobotsDenied,
		counters.Keywords,
		counters.Links,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read session id: %w", err)
	}

	keywordsByURL := make(map[string]*model.PageKeywords, len(result.Keywords))
	for _, kw := range result.Keywords {
		keywordsByURL[kw.PageURL] = kw
	}

	for _, page := range result.Pages {
		pageID, err := sdb.insertPage(ctx, tx, sessionID, page)
		if err != nil {
			return 0, err
		}
		if kw, ok := keywordsByURL[page.URL]; ok {
			if err := sdb.insertKeywords(ctx, tx, sessionID, pageID, kw); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session: %w", err)
	}

	result.Session.ID = sessionID
	return sessionID, nil
}

// insertPage writes one page row plus its links and images.
func (sdb *SEODB) insertPage(ctx context.Context, tx *sql.Tx, sessionID int64, page *model.PageRecord) (int64, error) {
	headingsJSON, err := json.Marshal(page.Headings)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize headings: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
	INSERT INTO pages (session_id, url, domain, status_code, depth, parent,
		title, h1, meta_description, canonical_url, language, headings,
		word_count, content_hash, response_time_ms, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		page.URL,
		page.Domain,
		page.StatusCode,
		page.Depth,
		page.Parent,
		page.Title,
		page.H1,
		page.MetaDescription,
		page.CanonicalURL,
		page.Language,
		string(headingsJSON),
		page.WordCount,
		page.ContentHash,
		page.ResponseTime.Milliseconds(),
		page.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert page %s: %w", page.URL, err)
	}
	pageID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read page id: %w", err)
	}

	for _, link := range page.Links {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO links (page_id, url, anchor_text, internal, nofollow)
		VALUES (?, ?, ?, ?, ?)`,
			pageID, link.URL, link.AnchorText, boolToInt(link.Internal), boolToInt(link.NoFollow),
		); err != nil {
			return 0, fmt.Errorf("failed to insert link: %w", err)
		}
	}

	for _, img := range page.Images {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO images (page_id, url, alt) VALUES (?, ?, ?)`,
			pageID, img.URL, img.Alt,
		); err != nil {
			return 0, fmt.Errorf("failed to insert image: %w", err)
		}
	}

	return pageID, nil
}

// insertKeywords writes all keyword rows for one page.
func (sdb *SEODB) insertKeywords(ctx context.Context, tx *sql.Tx, sessionID, pageID int64, kw *model.PageKeywords) error {
	for i := range kw.Keywords {
		record := &kw.Keywords[i]
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO keywords (session_id, page_id, term, is_ngram, ngram_size,
			frequency, density, tfidf, in_title, in_h1, in_first_100, stuffed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionID,
			pageID,
			record.Term,
			boolToInt(record.IsNGram),
			record.NGramSize,
			record.Frequency,
			record.Density,
			record.TFIDF,
			boolToInt(record.InTitle),
			boolToInt(record.InH1),
			boolToInt(record.InFirst100Words),
			boolToInt(record.Stuffed),
		); err != nil {
			return fmt.Errorf("failed to insert keyword %q: %w", record.Term, err)
		}
	}
	return nil
}

// GetSession retrieves one session summary by id. Returns nil when no
// session with that id exists.
func (sdb *SEODB) GetSession(ctx context.Context, id int64) (*model.Session, error) {
	row := sdb.db.QueryRowContext(ctx, `
	SELECT id, started_at, finished_at, stopped, seeds, config_json,
		fetched, failed, skipped, robots_denied, keyword_count, link_count
	FROM sessions WHERE id = ?`, id)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// ListSessions returns all stored sessions, most recent first.
func (sdb *SEODB) ListSessions(ctx context.Context) ([]*model.Session, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT id, started_at, finished_at, stopped, seeds, config_json,
		fetched, failed, skipped, robots_denied, keyword_count, link_count
	FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// GetSessionResult reconstructs a full session result (pages, links, images,
// keywords) from storage. Returns nil when the session does not exist.
func (sdb *SEODB) GetSessionResult(ctx context.Context, id int64) (*model.SessionResult, error) {
	session, err := sdb.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	pages, pageIDs, err := sdb.pagesBySession(ctx, id)
	if err != nil {
		return nil, err
	}

	keywords := make([]*model.PageKeywords, 0, len(pages))
	for i, page := range pages {
		kw, err := sdb.keywordsByPage(ctx, pageIDs[i], page.URL)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}

	return &model.SessionResult{
		Session:  session,
		Pages:    pages,
		Keywords: keywords,
	}, nil
}

// TopKeyword is one row of the session-wide keyword ranking.
type TopKeyword struct {
	// Term is the keyword text.
	Term string

	// Pages is the number of pages the term appears on.
	Pages int

	// TotalFrequency sums the term's occurrences across the session.
	TotalFrequency int

	// MaxTFIDF is the highest per-page TF-IDF score the term reached.
	MaxTFIDF float64
}

// TopKeywords returns the session's highest-scoring terms, ranked by their
// best per-page TF-IDF score with lexical tie-break.
func (sdb *SEODB) TopKeywords(ctx context.Context, sessionID int64, limit int) ([]TopKeyword, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT term, COUNT(DISTINCT page_id), SUM(frequency), MAX(tfidf)
	FROM keywords WHERE session_id = ?
	GROUP BY term
	ORDER BY MAX(tfidf) DESC, term ASC
	LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top keywords: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var results []TopKeyword
	for rows.Next() {
		var kw TopKeyword
		if err := rows.Scan(&kw.Term, &kw.Pages, &kw.TotalFrequency, &kw.MaxTFIDF); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		results = append(results, kw)
	}
	return results, rows.Err()
}

// DuplicateGroup is a set of URLs within one session sharing a content hash.
type DuplicateGroup struct {
	// ContentHash is the shared body-text hash.
	ContentHash string

	// URLs are the pages carrying that hash, in insertion order.
	URLs []string
}

// DuplicatePages returns groups of pages with identical body text, the raw
// material for duplicate-content findings in reports.
func (sdb *SEODB) DuplicatePages(ctx context.Context, sessionID int64) ([]DuplicateGroup, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT content_hash, url FROM pages
	WHERE session_id = ? AND content_hash IN (
		SELECT content_hash FROM pages
		WHERE session_id = ? GROUP BY content_hash HAVING COUNT(*) > 1
	)
	ORDER BY content_hash, id`, sessionID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicate pages: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var groups []DuplicateGroup
	for rows.Next() {
		var hash, url string
		if err := rows.Scan(&hash, &url); err != nil {
			return nil, fmt.Errorf("failed to scan duplicate page: %w", err)
		}
		if len(groups) == 0 || groups[len(groups)-1].ContentHash != hash {
			groups = append(groups, DuplicateGroup{ContentHash: hash})
		}
		groups[len(groups)-1].URLs = append(groups[len(groups)-1].URLs, url)
	}
	return groups, rows.Err()
}

// pagesBySession loads every page of a session in insertion order, with
// links and images attached.
func (sdb *SEODB) pagesBySession(ctx context.Context, sessionID int64) ([]*model.PageRecord, []int64, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT id, url, domain, status_code, depth, parent, title, h1,
		meta_description, canonical_url, language, headings, word_count,
		content_hash, response_time_ms, fetched_at
	FROM pages WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var pages []*model.PageRecord
	var pageIDs []int64
	for rows.Next() {
		var page model.PageRecord
		var pageID int64
		var headingsJSON, fetchedAt string
		var responseMs int64

		if err := rows.Scan(&pageID, &page.URL, &page.Domain, &page.StatusCode,
			&page.Depth, &page.Parent, &page.Title, &page.H1,
			&page.MetaDescription, &page.CanonicalURL, &page.Language,
			&headingsJSON, &page.WordCount, &page.ContentHash,
			&responseMs, &fetchedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan page: %w", err)
		}

		if headingsJSON != "" {
			if err := json.Unmarshal([]byte(headingsJSON), &page.Headings); err != nil {
				return nil, nil, fmt.Errorf("failed to parse headings: %w", err)
			}
		}
		page.ResponseTime = time.Duration(responseMs) * time.Millisecond
		page.FetchedAt = parseTimestamp(fetchedAt)

		pages = append(pages, &page)
		pageIDs = append(pageIDs, pageID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	for i, pageID := range pageIDs {
		if err := sdb.attachLinksAndImages(ctx, pageID, pages[i]); err != nil {
			return nil, nil, err
		}
	}
	return pages, pageIDs, nil
}

// attachLinksAndImages fills one page's links and images from storage.
func (sdb *SEODB) attachLinksAndImages(ctx context.Context, pageID int64, page *model.PageRecord) error {
	linkRows, err := sdb.db.QueryContext(ctx, `
	SELECT url, anchor_text, internal, nofollow FROM links WHERE page_id = ? ORDER BY id`, pageID)
	if err != nil {
		return fmt.Errorf("failed to query links: %w", err)
	}
	defer linkRows.Close() //nolint:errcheck

	for linkRows.Next() {
		var link model.Link
		var internal, nofollow int
		if err := linkRows.Scan(&link.URL, &link.AnchorText, &internal, &nofollow); err != nil {
			return fmt.Errorf("failed to scan link: %w", err)
		}
		link.Internal = internal != 0
		link.NoFollow = nofollow != 0
		page.Links = append(page.Links, link)
	}
	if err := linkRows.Err(); err != nil {
		return err
	}

	imageRows, err := sdb.db.QueryContext(ctx, `
	SELECT url, alt FROM images WHERE page_id = ? ORDER BY id`, pageID)
	if err != nil {
		return fmt.Errorf("failed to query images: %w", err)
	}
	defer imageRows.Close() //nolint:errcheck

	for imageRows.Next() {
		var img model.Image
		if err := imageRows.Scan(&img.URL, &img.Alt); err != nil {
			return fmt.Errorf("failed to scan image: %w", err)
		}
		page.Images = append(page.Images, img)
	}
	return imageRows.Err()
}

// keywordsByPage loads one page's keyword records in stored order, which
// preserves the finalized TF-IDF ranking.
func (sdb *SEODB) keywordsByPage(ctx context.Context, pageID int64, pageURL string) (*model.PageKeywords, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT term, is_ngram, ngram_size, frequency, density, tfidf,
		in_title, in_h1, in_first_100, stuffed
	FROM keywords WHERE page_id = ? ORDER BY id`, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	result := &model.PageKeywords{PageURL: pageURL}
	for rows.Next() {
		var kw model.KeywordRecord
		var isNGram, inTitle, inH1, inFirst, stuffed int
		if err := rows.Scan(&kw.Term, &isNGram, &kw.NGramSize, &kw.Frequency,
			&kw.Density, &kw.TFIDF, &inTitle, &inH1, &inFirst, &stuffed); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		kw.IsNGram = isNGram != 0
		kw.InTitle = inTitle != 0
		kw.InH1 = inH1 != 0
		kw.InFirst100Words = inFirst != 0
		kw.Stuffed = stuffed != 0
		result.Keywords = append(result.Keywords, kw)
	}
	return result, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession reads one sessions row into a model.Session.
func scanSession(row rowScanner) (*model.Session, error) {
	var session model.Session
	var startedAt, finishedAt, seedsJSON string
	var configJSON sql.NullString
	var stopped int

	if err := row.Scan(&session.ID, &startedAt, &finishedAt, &stopped,
		&seedsJSON, &configJSON,
		&session.Counters.Fetched, &session.Counters.Failed,
		&session.Counters.Skipped, &session.Counters.RobotsDenied,
		&session.Counters.Keywords, &session.Counters.Links); err != nil {
		return nil, err
	}

	session.StartedAt = parseTimestamp(startedAt)
	session.FinishedAt = parseTimestamp(finishedAt)
	session.Stopped = stopped != 0

	if err := json.Unmarshal([]byte(seedsJSON), &session.Seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seeds: %w", err)
	}
	if configJSON.Valid && configJSON.String != "" {
		if err := json.Unmarshal([]byte(configJSON.String), &session.ConfigSnapshot); err != nil {
			return nil, fmt.Errorf("failed to parse config snapshot: %w", err)
		}
	}
	return &session, nil
}

// boolToInt stores booleans as SQLite integers.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
