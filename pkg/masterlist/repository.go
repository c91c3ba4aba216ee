package masterlist

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("masterlist not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Masterlist{}, &Record{})
}

func (r *Repository) Create(ctx context.Context, ml *Masterlist) error {
	ml.CreatedAt = time.Now().UTC()
	ml.UpdatedAt = ml.CreatedAt
	if ml.Status == "" {
		ml.Status = StatusPending
	}
	return r.db.WithContext(ctx).Create(ml).Error
}

func (r *Repository) Get(ctx context.Context, id uint64) (*Masterlist, error) {
	var ml Masterlist
	result := r.db.WithContext(ctx).First(&ml, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &ml, result.Error
}

func (r *Repository) List(ctx context.Context, ownerID string, limit int) ([]Masterlist, error) {
	if limit <= 0 {
		limit = 50
	}
	var lists []Masterlist
	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	result := query.Find(&lists)
	return lists, result.Error
}

func (r *Repository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&Masterlist{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetStatus(ctx context.Context, id uint64, status Status) error {
	return r.db.WithContext(ctx).Model(&Masterlist{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

// MarkReady finishes ingestion: the record count and the ready status land
// in a single update.
func (r *Repository) MarkReady(ctx context.Context, id uint64, recordCount int) error {
	return r.db.WithContext(ctx).Model(&Masterlist{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       StatusReady,
			"record_count": recordCount,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// Complete finishes a deduplication run. Status and pair count are written
// together so a reader never sees completed with a stale count.
func (r *Repository) Complete(ctx context.Context, id uint64, pairCount int) error {
	return r.db.WithContext(ctx).Model(&Masterlist{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":               StatusCompleted,
			"duplicate_pair_count": pairCount,
			"updated_at":           time.Now().UTC(),
		}).Error
}

func (r *Repository) InsertRecords(ctx context.Context, records []Record, chunkSize int) error {
	if len(records) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = 500
	}
	now := time.Now().UTC()
	for i := range records {
		records[i].CreatedAt = now
		records[i].UpdatedAt = now
	}
	return r.db.WithContext(ctx).CreateInBatches(records, chunkSize).Error
}

func (r *Repository) CountRecords(ctx context.Context, masterlistID uint64) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&Record{}).
		Where("masterlist_id = ?", masterlistID).
		Count(&count)
	return count, result.Error
}
