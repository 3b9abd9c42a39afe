package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/rappelscan/backend/internal/domain"
)

// SQLiteStore implements domain.FavoriteStore on a SQLite file
type SQLiteStore struct {
	db  *sql.DB
	log logrus.FieldLogger
	now func() time.Time
}

// NewSQLiteStore opens the database at dbPath and creates the schema when missing
func NewSQLiteStore(dbPath string, logger logrus.FieldLogger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time keeps SQLite away from SQLITE_BUSY
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{
		db:  db,
		log: logger.WithField("component", "favorites-store"),
		now: time.Now,
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	store.log.WithField("path", dbPath).Info("SQLite opened")
	return store, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS favorites (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT NOT NULL UNIQUE,
        product_name TEXT NOT NULL DEFAULT '',
        brand TEXT NOT NULL DEFAULT '',
        barcode TEXT NOT NULL DEFAULT '',
        created_at DATETIME NOT NULL
    );
    `
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// List returns all favorites in insertion order
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_name, brand, barcode, created_at FROM favorites ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []domain.Favorite{}
	for rows.Next() {
		var fav domain.Favorite
		if err := rows.Scan(&fav.ID, &fav.ProductName, &fav.Brand, &fav.Barcode, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// Create stores a new favorite under a generated id
func (s *SQLiteStore) Create(ctx context.Context, in domain.FavoriteInput) (domain.Favorite, error) {
	fav := domain.Favorite{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
	}
	in.Apply(&fav)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (id, product_name, brand, barcode, created_at) VALUES (?, ?, ?, ?, ?)`,
		fav.ID, fav.ProductName, fav.Brand, fav.Barcode, fav.CreatedAt)
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("save favorite: %w", err)
	}
	return fav, nil
}

// Update merges the set fields of in into the favorite with the given id
func (s *SQLiteStore) Update(ctx context.Context, id string, in domain.FavoriteInput) (domain.Favorite, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var fav domain.Favorite
	err = tx.QueryRowContext(ctx,
		`SELECT id, product_name, brand, barcode, created_at FROM favorites WHERE id = ?`, id).
		Scan(&fav.ID, &fav.ProductName, &fav.Brand, &fav.Barcode, &fav.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Favorite{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("load favorite %s: %w", id, err)
	}

	in.Apply(&fav)
	if _, err := tx.ExecContext(ctx,
		`UPDATE favorites SET product_name = ?, brand = ?, barcode = ? WHERE id = ?`,
		fav.ProductName, fav.Brand, fav.Barcode, id); err != nil {
		return domain.Favorite{}, fmt.Errorf("update favorite %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Favorite{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return fav, nil
}

// Delete removes the favorite with the given id
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete favorite %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete favorite %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
