package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rappelscan/backend/internal/domain"
)

// FavoritesService manages the saved favorites
type FavoritesService struct {
	store domain.FavoriteStore
	log   logrus.FieldLogger
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(store domain.FavoriteStore, logger logrus.FieldLogger) *FavoritesService {
	return &FavoritesService{
		store: store,
		log:   logger.WithField("component", "favorites"),
	}
}

// List returns the favorites in insertion order
func (s *FavoritesService) List(ctx context.Context) ([]domain.Favorite, error) {
	return s.store.List(ctx)
}

// Add saves a new favorite. Products already saved are rejected with
// ErrDuplicateFavorite, and inputs with nothing to monitor with ErrInvalidRequest.
func (s *FavoritesService) Add(ctx context.Context, in domain.FavoriteInput) (domain.Favorite, error) {
	var candidate domain.Favorite
	in.Apply(&candidate)
	if !candidate.HasIdentity() {
		return domain.Favorite{}, domain.ErrInvalidRequest
	}

	existing, err := s.store.List(ctx)
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("list favorites: %w", err)
	}
	for _, fav := range existing {
		if sameProduct(fav, candidate) {
			return domain.Favorite{}, fmt.Errorf("%w: %s", domain.ErrDuplicateFavorite, fav.ID)
		}
	}

	// Store every field, even when empty
	normalized := domain.FavoriteInput{
		ProductName: &candidate.ProductName,
		Brand:       &candidate.Brand,
		Barcode:     &candidate.Barcode,
	}
	fav, err := s.store.Create(ctx, normalized)
	if err != nil {
		return domain.Favorite{}, err
	}
	s.log.WithField("favorite_id", fav.ID).Info("Favorite added")
	return fav, nil
}

// Update changes the set fields of a favorite
func (s *FavoritesService) Update(ctx context.Context, id string, in domain.FavoriteInput) (domain.Favorite, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Favorite{}, domain.ErrInvalidRequest
	}
	return s.store.Update(ctx, id, in)
}

// Remove deletes a favorite
func (s *FavoritesService) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("favorite_id", id).Info("Favorite removed")
	return nil
}

// sameProduct compares barcodes when both have one, otherwise brand and name
func sameProduct(a, b domain.Favorite) bool {
	if a.Barcode != "" && b.Barcode != "" {
		return a.Barcode == b.Barcode
	}
	return strings.EqualFold(strings.TrimSpace(a.Brand), strings.TrimSpace(b.Brand)) &&
		strings.EqualFold(strings.TrimSpace(a.ProductName), strings.TrimSpace(b.ProductName))
}
