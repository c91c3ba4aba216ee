package dedup

import (
	"context"

	"github.com/openrelief/masterlist/pkg/masterlist"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&DuplicatePair{})
}

// TargetRecords loads the records of the masterlist being deduplicated in
// ascending-ID order.
func (r *Repository) TargetRecords(ctx context.Context, masterlistID uint64) ([]masterlist.Record, error) {
	var records []masterlist.Record
	result := r.db.WithContext(ctx).
		Where("masterlist_id = ?", masterlistID).
		Order("id ASC").
		Find(&records)
	return records, result.Error
}

// ForeignRecords loads every record belonging to any other masterlist.
func (r *Repository) ForeignRecords(ctx context.Context, masterlistID uint64) ([]masterlist.Record, error) {
	var records []masterlist.Record
	result := r.db.WithContext(ctx).
		Where("masterlist_id <> ?", masterlistID).
		Order("id ASC").
		Find(&records)
	return records, result.Error
}

// UpsertPairs writes pairs against the unique (record_1_id, record_2_id)
// constraint. Conflicting rows keep their id, status, and created_at; only
// the computed columns refresh.
func (r *Repository) UpsertPairs(ctx context.Context, pairs []DuplicatePair) error {
	if len(pairs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_1_id"}, {Name: "record_2_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"match_type", "confidence", "updated_at"}),
	}).Create(&pairs).Error
}

func (r *Repository) PairsByMasterlist(ctx context.Context, masterlistID uint64, status PairStatus, limit, offset int) ([]DuplicatePair, error) {
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
	var pairs []DuplicatePair
	result := query.Find(&pairs)
	return pairs, result.Error
}
