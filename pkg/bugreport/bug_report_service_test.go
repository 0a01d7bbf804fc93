package bugreport

import (
	"context"
	"errors"
	"testing"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendMail(to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

func TestCreateBugReport(t *testing.T) {
	db := testutil.NewTestDB(t)
	mailer := &fakeMailer{}
	svc := NewBugReportService(NewBugReportRepository(db), mailer, "dev@example.com")
	u := testutil.CreateUser(t, db, "alice")
	ctx := context.Background()

	res, err := svc.CreateBugReport(ctx, domain.CreateBugReportRequest{Title: "  List  is empty ", Description: "menu had dishes"}, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "List is empty", res.Title)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "dev@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].subject, "List is empty")
	assert.Contains(t, mailer.sent[0].body, "menu had dishes")

	_, err = svc.CreateBugReport(ctx, domain.CreateBugReportRequest{Title: "List is empty", Description: "again"}, u.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateBugReport(ctx, domain.CreateBugReportRequest{Title: "Other", Description: "   "}, u.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateBugReport_MailFailureIsNotSurfaced(t *testing.T) {
	db := testutil.NewTestDB(t)
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := NewBugReportService(NewBugReportRepository(db), mailer, "dev@example.com")
	u := testutil.CreateUser(t, db, "alice")

	_, err := svc.CreateBugReport(context.Background(), domain.CreateBugReportRequest{Title: "Crash", Description: "on save"}, u.ID.String())
	require.NoError(t, err)

	var count int64
	db.Model(&entities.BugReport{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateBugReport_WithoutMailer(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewBugReportService(NewBugReportRepository(db), nil, "")
	u := testutil.CreateUser(t, db, "alice")

	_, err := svc.CreateBugReport(context.Background(), domain.CreateBugReportRequest{Title: "Crash", Description: "on save"}, u.ID.String())
	assert.NoError(t, err)
}
