package export

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

func (r *Repository) ConfirmedSecondaryIDs(ctx context.Context, masterlistID uint64) ([]uint64, error) {
	var ids []uint64
	result := r.db.WithContext(ctx).Model(&dedup.DuplicatePair{}).
		Where("masterlist_id = ? AND status = ?", masterlistID, dedup.PairConfirmed).
		Pluck("record_2_id", &ids)
	return ids, result.Error
}

func (r *Repository) RecordPage(ctx context.Context, masterlistID uint64, afterID uint64, limit int) ([]masterlist.Record, error) {
	var records []masterlist.Record
	result := r.db.WithContext(ctx).
		Where("masterlist_id = ? AND id > ?", masterlistID, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&records)
	return records, result.Error
}
