package stats

import (
	"context"

	"github.com/openrelief/masterlist/pkg/dedup"
	"github.com/openrelief/masterlist/pkg/masterlist"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Totals(ctx context.Context, ownerID string) (int64, int64, int64, error) {
	type sums struct {
		Records int64
		Pairs   int64
	}
	var total sums
	query := r.db.WithContext(ctx).Model(&masterlist.Masterlist{}).
		Select("COALESCE(SUM(record_count), 0) AS records, COALESCE(SUM(duplicate_pair_count), 0) AS pairs")
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	if err := query.Scan(&total).Error; err != nil {
		return 0, 0, 0, err
	}

	var processed int64
	query = r.db.WithContext(ctx).Model(&masterlist.Masterlist{}).
		Select("COALESCE(SUM(record_count), 0)").
		Where("status = ?", masterlist.StatusCompleted)
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	if err := query.Scan(&processed).Error; err != nil {
		return 0, 0, 0, err
	}

	return total.Records, total.Pairs, processed, nil
}

func (r *Repository) PairCounts(ctx context.Context, ownerID string) (int64, int64, int64, error) {
	count := func(statuses []dedup.PairStatus) (int64, error) {
		var n int64
		query := r.db.WithContext(ctx).Model(&dedup.DuplicatePair{}).
			Where("status IN ?", statuses)
		if ownerID != "" {
			query = query.Where(
				"masterlist_id IN (?)",
				r.db.Model(&masterlist.Masterlist{}).Select("id").Where("owner_id = ?", ownerID),
			)
		}
		err := query.Count(&n).Error
		return n, err
	}

	confirmed, err := count([]dedup.PairStatus{dedup.PairConfirmed})
	if err != nil {
		return 0, 0, 0, err
	}
	pending, err := count([]dedup.PairStatus{dedup.PairPending})
	if err != nil {
		return 0, 0, 0, err
	}
	resolved, err := count([]dedup.PairStatus{dedup.PairConfirmed, dedup.PairDismissed})
	if err != nil {
		return 0, 0, 0, err
	}

	return confirmed, pending, resolved, nil
}

func (r *Repository) HasActiveRun(ctx context.Context, ownerID string) (bool, error) {
	var n int64
	query := r.db.WithContext(ctx).Model(&masterlist.Masterlist{}).
		Where("status IN ?", []masterlist.Status{masterlist.StatusProcessing, masterlist.StatusDeduplicating})
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	if err := query.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
