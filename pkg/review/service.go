package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/openrelief/masterlist/pkg/dedup"
)

// ErrInvalidStatus rejects review decisions other than confirmed/dismissed.
var ErrInvalidStatus = errors.New("review status must be confirmed or dismissed")

type PairStore interface {
	Get(ctx context.Context, id uint64) (*dedup.DuplicatePair, error)
	ListByMasterlist(ctx context.Context, masterlistID uint64, status dedup.PairStatus, limit, offset int) ([]dedup.DuplicatePair, error)
	UpdateStatus(ctx context.Context, id uint64, status dedup.PairStatus) error
}

type Service struct {
	pairs PairStore
}

func NewService(pairs PairStore) *Service {
	return &Service{pairs: pairs}
}

func (s *Service) List(ctx context.Context, masterlistID uint64, filter string, limit, offset int) ([]dedup.DuplicatePair, error) {
	var status dedup.PairStatus
	if filter != "" && filter != "all" {
		status = dedup.PairStatus(filter)
		if !status.Valid() {
			return nil, fmt.Errorf("unknown status filter %q", filter)
		}
	}
	return s.pairs.ListByMasterlist(ctx, masterlistID, status, limit, offset)
}

// Decide records a human review decision on a pair.
func (s *Service) Decide(ctx context.Context, pairID uint64, status dedup.PairStatus) (*dedup.DuplicatePair, error) {
	if status != dedup.PairConfirmed && status != dedup.PairDismissed {
		return nil, ErrInvalidStatus
	}
	if err := s.pairs.UpdateStatus(ctx, pairID, status); err != nil {
		return nil, err
	}
	return s.pairs.Get(ctx, pairID)
}
