package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/argo-platform/program-service/internal/db/models"
)

// BunReferenceRepository reads cancers and primary sites.
type BunReferenceRepository struct {
	db *bun.DB
}

// NewBunReferenceRepository constructs a repository backed by Bun.
func NewBunReferenceRepository(db *bun.DB) *BunReferenceRepository {
	return &BunReferenceRepository{db: db}
}

// ListCancers returns every cancer ordered by name.
func (r *BunReferenceRepository) ListCancers(ctx context.Context) ([]models.Cancer, error) {
	cancers := []models.Cancer{}
	if err := r.db.NewSelect().Model(&cancers).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list cancers: %w", err)
	}
	return cancers, nil
}

// ListPrimarySites returns every primary site ordered by name.
func (r *BunReferenceRepository) ListPrimarySites(ctx context.Context) ([]models.PrimarySite, error) {
	sites := []models.PrimarySite{}
	if err := r.db.NewSelect().Model(&sites).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list primary sites: %w", err)
	}
	return sites, nil
}

// GetCancerByName fetches a cancer by its exact name.
func (r *BunReferenceRepository) GetCancerByName(ctx context.Context, name string) (*models.Cancer, error) {
	cancer := new(models.Cancer)
	if err := r.db.NewSelect().Model(cancer).Where("name = ?", name).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cancer '%s' %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("query cancer: %w", err)
	}
	return cancer, nil
}

// GetPrimarySiteByName fetches a primary site by its exact name.
func (r *BunReferenceRepository) GetPrimarySiteByName(ctx context.Context, name string) (*models.PrimarySite, error) {
	site := new(models.PrimarySite)
	if err := r.db.NewSelect().Model(site).Where("name = ?", name).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("primary site '%s' %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("query primary site: %w", err)
	}
	return site, nil
}
