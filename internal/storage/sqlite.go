package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/geoview/geoview/internal/article"
	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
// The database is a disposable query cache; articles.jsonl is the source of truth.
type DB struct {
	db *sql.DB
}

// tagSeparator joins tags in the searchable tags column so a query cannot
// match across two adjacent tags.
const tagSeparator = "\n"

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			excerpt TEXT,
			category TEXT,
			topic_category TEXT,
			tags_text TEXT,
			lat REAL,
			lng REAL,
			period_start INTEGER,
			data_json TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);
		CREATE INDEX IF NOT EXISTS idx_articles_position ON articles(position);

		CREATE TABLE IF NOT EXISTS relations (
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (source_id, target_id)
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	articles, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}
	return d.Replace(articles)
}

// Replace clears the database and inserts the given articles in order.
func (d *DB) Replace(articles []article.Article) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM articles"); err != nil {
		return 0, fmt.Errorf("clearing articles table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM relations"); err != nil {
		return 0, fmt.Errorf("clearing relations table: %w", err)
	}

	articleStmt, err := tx.Prepare(`
		INSERT INTO articles (
			id, position, title, excerpt, category, topic_category,
			tags_text, lat, lng, period_start, data_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing articles insert: %w", err)
	}
	defer articleStmt.Close()

	relStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO relations (source_id, target_id, position)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing relations insert: %w", err)
	}
	defer relStmt.Close()

	for i, a := range articles {
		data, err := json.Marshal(a)
		if err != nil {
			return 0, fmt.Errorf("marshaling article %s: %w", a.ID, err)
		}

		var lat, lng sql.NullFloat64
		if a.GeoLocation != nil {
			lat = sql.NullFloat64{Float64: a.GeoLocation.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: a.GeoLocation.Lng, Valid: true}
		}
		var start sql.NullInt64
		if a.TimePeriod != nil {
			start = sql.NullInt64{Int64: int64(a.TimePeriod.Start), Valid: true}
		}

		_, err = articleStmt.Exec(
			a.ID, i, a.Title, a.Excerpt, a.Category, string(a.TopicCategory),
			strings.Join(a.Tags, tagSeparator), lat, lng, start, string(data),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting article %s: %w", a.ID, err)
		}

		for j, target := range a.RelatedPosts {
			if _, err := relStmt.Exec(a.ID, target, j); err != nil {
				return 0, fmt.Errorf("inserting relation %s -> %s: %w", a.ID, target, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(articles), nil
}

// GetByID retrieves an article by its ID.
// Returns nil, nil when no article has that ID.
func (d *DB) GetByID(id string) (*article.Article, error) {
	var data string
	err := d.db.QueryRow(`SELECT data_json FROM articles WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying article %s: %w", id, err)
	}

	var a article.Article
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, fmt.Errorf("decoding article %s: %w", id, err)
	}
	return &a, nil
}

// ListAll returns every article in file order.
func (d *DB) ListAll() ([]article.Article, error) {
	rows, err := d.db.Query(`SELECT data_json FROM articles ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// ListByCategory returns articles with the given category label in file order.
// The "All" label and the empty label return every article.
func (d *DB) ListByCategory(label string) ([]article.Article, error) {
	if label == "" || label == article.AllCategories {
		return d.ListAll()
	}
	rows, err := d.db.Query(`SELECT data_json FROM articles WHERE category = ? ORDER BY position`, label)
	if err != nil {
		return nil, fmt.Errorf("listing category %s: %w", label, err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// Search returns articles whose title, excerpt, tags, or category contain the
// query, case-insensitively, in file order. An empty query returns nothing.
func (d *DB) Search(query string, limit int) ([]article.Article, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := d.db.Query(`
		SELECT data_json FROM articles
		WHERE instr(lower(title), ?) > 0
		   OR instr(lower(excerpt), ?) > 0
		   OR instr(lower(tags_text), ?) > 0
		   OR instr(lower(category), ?) > 0
		ORDER BY position
		LIMIT ?`, q, q, q, q, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// CountDanglingRelations counts relations whose target is not a known article.
func (d *DB) CountDanglingRelations() (int, error) {
	var n int
	err := d.db.QueryRow(`
		SELECT COUNT(*) FROM relations r
		LEFT JOIN articles a ON a.id = r.target_id
		WHERE a.id IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting dangling relations: %w", err)
	}
	return n, nil
}

// Count returns the number of articles in the cache.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting articles: %w", err)
	}
	return n, nil
}

func scanArticles(rows *sql.Rows) ([]article.Article, error) {
	var articles []article.Article
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		var a article.Article
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return nil, fmt.Errorf("decoding article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}
	return articles, nil
}
