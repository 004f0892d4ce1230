// Package bid enforces the one-bid-per-user-per-project rule. The
// check-and-append runs under a per-project mutex so two concurrent
// attempts by the same bidder cannot both observe "no bid yet"; the
// composite unique index on (project_id, bidder_id) backs the rule across
// processes.
package bid

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/freelancehub/backend/internal/apperr"
	"github.com/freelancehub/backend/internal/models"
)

const MinBidLen = 5

type Service struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{DB: db, Log: log, locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (s *Service) projectLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Place appends a bid to the project. The bidder's current username is
// copied onto the bid as a snapshot. Owners are not prevented from bidding
// on their own projects, matching the marketplace's rules.
func (s *Service) Place(ctx context.Context, projectID, bidderID uuid.UUID, text string) (*models.Bid, error) {
	text = strings.TrimSpace(text)
	if len(text) < MinBidLen {
		return nil, apperr.Validation(map[string][]string{
			"bid": {"Bid must be at least 5 characters"},
		})
	}

	l := s.projectLock(projectID)
	l.Lock()
	defer l.Unlock()

	// Re-read current state inside the lock, never trust a caller's copy.
	var p models.Project
	if err := s.DB.WithContext(ctx).First(&p, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Project not found")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "Error adding bid", err)
	}

	var existing int64
	err := s.DB.WithContext(ctx).Model(&models.Bid{}).
		Where("project_id = ? AND bidder_id = ?", projectID, bidderID).
		Count(&existing).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Error adding bid", err)
	}
	if existing > 0 {
		return nil, apperr.New(apperr.KindConflict, "You have already placed a bid for this project")
	}

	var bidder models.User
	if err := s.DB.WithContext(ctx).First(&bidder, "id = ?", bidderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "Error adding bid", err)
	}

	b := models.Bid{
		ProjectID: projectID,
		BidderID:  bidderID,
		Username:  bidder.Username,
		Bid:       text,
	}
	if err := s.DB.WithContext(ctx).Create(&b).Error; err != nil {
		// Another process squeezed in between check and append.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.KindConflict, "You have already placed a bid for this project")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "Error adding bid", err)
	}

	// Bump the project's updated_at so "recently active" orderings see
	// the new bid.
	if err := s.DB.WithContext(ctx).Model(&p).Update("updated_at", b.CreatedAt).Error; err != nil && s.Log != nil {
		s.Log.Warnw("failed to touch project after bid", "project_id", projectID, "error", err)
	}

	return &b, nil
}
