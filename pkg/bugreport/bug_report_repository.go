package bugreport

import (
	"context"
	"errors"

	"shopmydish/domain"
	"shopmydish/entities"

	"gorm.io/gorm"
)

var ErrBugReportTitleTaken = domain.NewValidationError("title", "a bug report with this title already exists")

type (
	BugReportRepository interface {
		CreateBugReport(ctx context.Context, report *entities.BugReport) error
	}

	bugReportRepository struct {
		db *gorm.DB
	}
)

func NewBugReportRepository(db *gorm.DB) BugReportRepository {
	return &bugReportRepository{db: db}
}

func (r *bugReportRepository) CreateBugReport(ctx context.Context, report *entities.BugReport) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrBugReportTitleTaken
		}
		return err
	}
	return nil
}
