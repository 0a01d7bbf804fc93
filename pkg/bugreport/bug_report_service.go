package bugreport

import (
	"context"
	"fmt"
	"strings"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/internal/utils/mailing"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const titleMaxLength = 100

type (
	BugReportService interface {
		CreateBugReport(ctx context.Context, req domain.CreateBugReportRequest, userID string) (domain.BugReportResponse, error)
	}

	bugReportService struct {
		bugReportRepository BugReportRepository
		mailer              mailing.Mailer
		developerEmail      string
	}
)

// NewBugReportService stores reports and, when mailer is not nil, forwards
// each one to developerEmail.
func NewBugReportService(bugReportRepository BugReportRepository, mailer mailing.Mailer, developerEmail string) BugReportService {
	return &bugReportService{
		bugReportRepository: bugReportRepository,
		mailer:              mailer,
		developerEmail:      developerEmail,
	}
}

func (s *bugReportService) CreateBugReport(ctx context.Context, req domain.CreateBugReportRequest, userID string) (domain.BugReportResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.BugReportResponse{}, domain.ErrParseUUID
	}
	title, err := domain.ValidateTitle("title", req.Title, titleMaxLength)
	if err != nil {
		return domain.BugReportResponse{}, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.BugReportResponse{}, domain.NewValidationError("description", "must not be empty")
	}

	report := &entities.BugReport{UserID: userUUID, Title: title, Description: description}
	if err := s.bugReportRepository.CreateBugReport(ctx, report); err != nil {
		return domain.BugReportResponse{}, err
	}

	if s.mailer != nil && s.developerEmail != "" {
		subject := fmt.Sprintf("Bug report: %s", report.Title)
		body := fmt.Sprintf("Reported by %s\n\n%s", userUUID, report.Description)
		if err := s.mailer.SendMail(s.developerEmail, subject, body); err != nil {
			log.Errorw("failed to mail bug report", "bug_report_id", report.ID, "error", err)
		}
	}

	return domain.BugReportResponse{
		ID:          report.ID,
		Title:       report.Title,
		Description: report.Description,
	}, nil
}
