package domain

import (
	"context"
	"time"
)

// Report is one day's free-text work log entry. Reports are immutable once
// submitted; there is no update or delete path.
type Report struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyID   string    `json:"company_id"`
	Content     string    `json:"content"`
	Date        string    `json:"date"` // calendar day, YYYY-MM-DD, no time component
	CreatedAt   time.Time `json:"created_at"`
	AuthorEmail string    `json:"author_email,omitempty"`
}

type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	// ListByCompanyAndDate returns all reports for one company on one
	// calendar date, joined with each author's email, newest first.
	ListByCompanyAndDate(ctx context.Context, companyID, date string) ([]Report, error)
}

type ReportUsecase interface {
	// Submit stores the content verbatim (untrimmed, newlines preserved).
	// Blank or whitespace-only content is rejected before any insert.
	Submit(ctx context.Context, session *Session, content, date string) (*Report, error)
	// ListForDate lists the reports of the caller's company for the given
	// date. The date is the client's local calendar day; empty means the
	// server's local today.
	ListForDate(ctx context.Context, session *Session, date string) ([]Report, error)
}
