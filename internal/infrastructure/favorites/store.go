// Package favorites persists the user's favorite products on the local device
package favorites

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/rappelscan/backend/internal/domain"
)

// Supported storage drivers
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

// Open returns the favorites store for driver, rooted at path.
// For badger path is a directory; for sqlite it is the database file.
func Open(driver, path string, logger logrus.FieldLogger) (domain.FavoriteStore, error) {
	switch driver {
	case DriverBadger:
		return NewBadgerStore(path, logger)
	case DriverSQLite:
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create favorites directory: %w", err)
			}
		}
		return NewSQLiteStore(path, logger)
	default:
		return nil, fmt.Errorf("unknown favorites driver %q", driver)
	}
}
