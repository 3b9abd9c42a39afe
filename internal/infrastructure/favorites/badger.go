package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rappelscan/backend/internal/domain"
)

var (
	favoritePrefix = []byte("favorite:")
	sequenceKey    = []byte("meta:favorite-seq")
)

// storedFavorite is the value persisted per key; Seq keeps insertion order
type storedFavorite struct {
	domain.Favorite
	Seq uint64 `json:"seq"`
}

// BadgerStore implements domain.FavoriteStore on BadgerDB
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
	log logrus.FieldLogger
	now func() time.Time
}

// NewBadgerStore opens (or creates) the favorites database at dbPath
func NewBadgerStore(dbPath string, logger logrus.FieldLogger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}

	seq, err := db.GetSequence(sequenceKey, 64)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open favorite sequence: %w", err)
	}

	log := logger.WithField("component", "favorites-store")
	log.WithField("path", dbPath).Info("BadgerDB opened")

	return &BadgerStore{
		db:  db,
		seq: seq,
		log: log,
		now: time.Now,
	}, nil
}

// Close releases the sequence and closes the database
func (s *BadgerStore) Close() error {
	if err := s.seq.Release(); err != nil {
		s.log.WithError(err).Warn("Failed to release favorite sequence")
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger db: %w", err)
	}
	return nil
}

func favoriteKey(id string) []byte {
	return append(append([]byte{}, favoritePrefix...), id...)
}

// List returns all favorites in insertion order
func (s *BadgerStore) List(ctx context.Context) ([]domain.Favorite, error) {
	var stored []storedFavorite

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(favoritePrefix); it.ValidForPrefix(favoritePrefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var sf storedFavorite
				if err := json.Unmarshal(val, &sf); err != nil {
					return fmt.Errorf("decode favorite %s: %w", item.Key(), err)
				}
				stored = append(stored, sf)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	sort.Slice(stored, func(i, j int) bool { return stored[i].Seq < stored[j].Seq })

	favorites := make([]domain.Favorite, 0, len(stored))
	for _, sf := range stored {
		favorites = append(favorites, sf.Favorite)
	}
	return favorites, nil
}

// Create stores a new favorite under a generated id
func (s *BadgerStore) Create(ctx context.Context, in domain.FavoriteInput) (domain.Favorite, error) {
	seq, err := s.seq.Next()
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("next favorite sequence: %w", err)
	}

	fav := domain.Favorite{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
	}
	in.Apply(&fav)

	if err := s.db.Update(func(txn *badger.Txn) error {
		return putFavorite(txn, storedFavorite{Favorite: fav, Seq: seq})
	}); err != nil {
		return domain.Favorite{}, fmt.Errorf("save favorite: %w", err)
	}

	s.log.WithField("favorite_id", fav.ID).Debug("Favorite stored")
	return fav, nil
}

// Update merges the set fields of in into the favorite with the given id
func (s *BadgerStore) Update(ctx context.Context, id string, in domain.FavoriteInput) (domain.Favorite, error) {
	var updated domain.Favorite

	err := s.db.Update(func(txn *badger.Txn) error {
		sf, err := getFavorite(txn, id)
		if err != nil {
			return err
		}
		in.Apply(&sf.Favorite)
		updated = sf.Favorite
		return putFavorite(txn, sf)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Favorite{}, err
		}
		return domain.Favorite{}, fmt.Errorf("update favorite %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes the favorite with the given id
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := getFavorite(txn, id); err != nil {
			return err
		}
		return txn.Delete(favoriteKey(id))
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete favorite %s: %w", id, err)
	}
	return nil
}

func getFavorite(txn *badger.Txn, id string) (storedFavorite, error) {
	var sf storedFavorite
	item, err := txn.Get(favoriteKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return sf, domain.ErrNotFound
	}
	if err != nil {
		return sf, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &sf)
	})
	return sf, err
}

func putFavorite(txn *badger.Txn, sf storedFavorite) error {
	data, err := json.Marshal(sf)
	if err != nil {
		return fmt.Errorf("encode favorite: %w", err)
	}
	return txn.SetEntry(badger.NewEntry(favoriteKey(sf.ID), data))
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.logger.Errorf(f, v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.logger.Warningf(f, v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.logger.Debugf(f, v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.logger.Debugf(f, v...) }
