// Package project holds the project store operations and their validation
// rules. Owner-scoped lookups collapse "does not exist" and "not yours"
// into a single not-found failure so one user cannot probe another's
// projects.
package project

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/freelancehub/backend/internal/apperr"
	"github.com/freelancehub/backend/internal/models"
)

const (
	MinTitleLen   = 10
	MinDetailsLen = 30
	MinAmountLen  = 4
	MaxAmountLen  = 6
)

type Service struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{DB: db, Log: log}
}

func validateCreate(title, details, amount string) map[string][]string {
	errs := map[string][]string{}

	if len(title) < MinTitleLen {
		errs["title"] = append(errs["title"], "Project title must be at least 10 characters")
	}
	if len(details) < MinDetailsLen {
		errs["details"] = append(errs["details"], "Project description must be at least 30 characters")
	}
	if len(amount) < MinAmountLen || len(amount) > MaxAmountLen {
		errs["amount"] = append(errs["amount"], "Project amount must be 4 to 6 digits")
	} else {
		for _, r := range amount {
			if r < '0' || r > '9' {
				errs["amount"] = append(errs["amount"], "Project amount must contain digits only")
				break
			}
		}
	}
	return errs
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, title, details, amount string) (*models.Project, error) {
	title = strings.TrimSpace(title)
	details = strings.TrimSpace(details)
	amount = strings.TrimSpace(amount)

	if errs := validateCreate(title, details, amount); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	p := models.Project{
		Title:   title,
		Details: details,
		Amount:  amount,
		OwnerID: ownerID,
		Bids:    []models.Bid{},
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Error uploading project", err)
	}
	return &p, nil
}

// ListByOwner returns the owner's projects, most recently updated first,
// with their bids loaded.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Preload("Bids").
		Order("updated_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Error while fetching projects", err)
	}
	return projects, nil
}

// ListWithBidsBy returns every project holding at least one bid by the
// given user. Projects come back in full, bids from other users included;
// the caller decides what to display.
func (s *Service) ListWithBidsBy(ctx context.Context, bidderID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := s.DB.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM bids WHERE bids.project_id = projects.id AND bids.bidder_id = ?)", bidderID).
		Preload("Bids").
		Order("updated_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Error while fetching projects", err)
	}
	return projects, nil
}

// Get fetches a project by id for any authenticated caller.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	err := s.DB.WithContext(ctx).Preload("Bids").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "Project not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Error while fetching the project", err)
	}
	return &p, nil
}

// GetOwned fetches a project only if ownerID owns it. A mismatch reports
// not-found, the same as absence.
func (s *Service) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Project, error) {
	var p models.Project
	err := s.DB.WithContext(ctx).Preload("Bids").First(&p, "id = ? AND owner_id = ?", id, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logOwnerMiss(ctx, id, ownerID)
		return nil, apperr.New(apperr.KindNotFound, "Project not found or unauthorized")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Error while fetching the project", err)
	}
	return &p, nil
}

// Delete removes the project and its bids in one statement. It fails with
// not-found when the id does not exist or the caller is not the owner,
// leaving the store untouched either way.
func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Project{})
	if res.Error != nil {
		return apperr.Wrap(apperr.KindDependency, "Error while deleting the project", res.Error)
	}
	if res.RowsAffected == 0 {
		s.logOwnerMiss(ctx, id, ownerID)
		return apperr.New(apperr.KindNotFound, "Project not found or unauthorized")
	}
	return nil
}

// The collapsed not-found hides ownership mismatches from callers; keep
// the distinction in the logs.
func (s *Service) logOwnerMiss(ctx context.Context, id, ownerID uuid.UUID) {
	if s.Log == nil {
		return
	}
	var count int64
	s.DB.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Count(&count)
	if count > 0 {
		s.Log.Infow("owner-scoped access denied", "project_id", id, "requester", ownerID)
	}
}
