package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS cache (
    cache_key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    created_at INTEGER NOT NULL
)`

// SQLiteCache is a response cache stored in a local SQLite database.
type SQLiteCache struct {
	db  *sql.DB
	sq  sq.StatementBuilderType
	ttl time.Duration
	now func() time.Time
}

// SQLiteConfig holds configuration for the SQLite cache.
type SQLiteConfig struct {
	Path string // Database file; parent directories are created
	TTL  int    // TTL in seconds (0 = no expiration)
}

// NewSQLiteCache opens (or creates) the cache database at cfg.Path.
func NewSQLiteCache(cfg SQLiteConfig) (*SQLiteCache, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite cache: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("make db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, stmt := range []string{"PRAGMA journal_mode = WAL;", "PRAGMA synchronous = NORMAL;", sqliteSchema} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite cache: %w", err)
		}
	}

	ttl := time.Duration(cfg.TTL) * time.Second
	if cfg.TTL <= 0 {
		ttl = 0
	}

	return &SQLiteCache{
		db:  db,
		sq:  sq.StatementBuilder,
		ttl: ttl,
		now: time.Now,
	}, nil
}

func (c *SQLiteCache) live(q sq.SelectBuilder) sq.SelectBuilder {
	if c.ttl > 0 {
		return q.Where(sq.GtOrEq{"created_at": c.now().Add(-c.ttl).Unix()})
	}
	return q
}

// Get retrieves a value. Errors and expired rows are reported as misses.
func (c *SQLiteCache) Get(key string) (string, bool) {
	q := c.live(c.sq.Select("value").From("cache").Where(sq.Eq{"cache_key": key})).Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return "", false
	}

	var value string
	if err := c.db.QueryRowContext(context.Background(), sqlStr, args...).Scan(&value); err != nil {
		return "", false
	}
	return value, true
}

// Set stores or replaces a value.
func (c *SQLiteCache) Set(key string, value string) error {
	q := c.sq.Insert("cache").
		Columns("cache_key", "value", "created_at").
		Values(key, value, c.now().Unix()).
		Suffix("ON CONFLICT(cache_key) DO UPDATE SET value=excluded.value, created_at=excluded.created_at")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(context.Background(), sqlStr, args...)
	return err
}

// Entries returns all live rows.
func (c *SQLiteCache) Entries() map[string]string {
	result := make(map[string]string)

	sqlStr, args, err := c.live(c.sq.Select("cache_key", "value").From("cache")).OrderBy("cache_key").ToSql()
	if err != nil {
		return result
	}
	rows, err := c.db.QueryContext(context.Background(), sqlStr, args...)
	if err != nil {
		return result
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		result[key] = value
	}
	return result
}

// Prune deletes expired rows and returns how many were removed.
func (c *SQLiteCache) Prune(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	sqlStr, args, err := c.sq.Delete("cache").
		Where(sq.Lt{"created_at": c.now().Add(-c.ttl).Unix()}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := c.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Verify SQLiteCache implements EnumerableCache
var _ EnumerableCache = (*SQLiteCache)(nil)
