package review

import (
	"context"
	"errors"
	"time"

	"github.com/openrelief/masterlist/pkg/dedup"
	"gorm.io/gorm"
)

var ErrPairNotFound = errors.New("duplicate pair not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, id uint64) (*dedup.DuplicatePair, error) {
	var pair dedup.DuplicatePair
	result := r.db.WithContext(ctx).First(&pair, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrPairNotFound
	}
	return &pair, result.Error
}

func (r *Repository) ListByMasterlist(ctx context.Context, masterlistID uint64, status dedup.PairStatus, limit, offset int) ([]dedup.DuplicatePair, error) {
	if limit <= 0 {
		limit = 20
	}
	query := r.db.WithContext(ctx).
		Where("masterlist_id = ?", masterlistID).
		Order("confidence DESC, id ASC").
		Limit(limit).
		Offset(offset)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var pairs []dedup.DuplicatePair
	result := query.Find(&pairs)
	return pairs, result.Error
}

// UpdateStatus writes only the review status column. Tier and confidence
// belong to the deduplication engine and are never touched here.
func (r *Repository) UpdateStatus(ctx context.Context, id uint64, status dedup.PairStatus) error {
	result := r.db.WithContext(ctx).Model(&dedup.DuplicatePair{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPairNotFound
	}
	return nil
}
