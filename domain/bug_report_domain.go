package domain

import "github.com/google/uuid"

var (
	MessageSuccessCreateBugReport = "bug report submitted successfully"
	MessageFailedCreateBugReport  = "failed to submit bug report"
)

type (
	CreateBugReportRequest struct {
		Title       string `json:"title" validate:"required,max=100"`
		Description string `json:"description" validate:"required"`
	}

	BugReportResponse struct {
		ID          uuid.UUID `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
	}
)
