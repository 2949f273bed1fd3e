package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/seconnect/ice-backend/internal/application/port"
)

// ReportService renders notification-email audit records to a spreadsheet
// for compensation administrators.
type ReportService interface {
	// NotificationReport builds an xlsx workbook of audit rows recorded
	// since the given time and returns its serialized bytes.
	NotificationReport(ctx context.Context, since time.Time) ([]byte, error)
}

type reportServiceImpl struct {
	emailAudit port.NotificationEmailRepository
	logger     Logger
}

// NewReportService creates a new ReportService.
func NewReportService(emailAudit port.NotificationEmailRepository, logger Logger) ReportService {
	return &reportServiceImpl{emailAudit: emailAudit, logger: logger}
}

var notificationReportHeader = []string{
	"Sales Letter ID",
	"Version ID",
	"Workflow Setup ID",
	"Sent At",
	"Recipients",
	"CC",
	"Subject",
}

// NotificationReport renders the audit rows to a single-sheet workbook.
func (s *reportServiceImpl) NotificationReport(ctx context.Context, since time.Time) ([]byte, error) {
	records, err := s.emailAudit.List(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list notification emails: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Notifications"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range notificationReportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("write report header: %w", err)
		}
	}

	for i, rec := range records {
		row := i + 2
		values := []interface{}{
			rec.SalesLetterID,
			rec.SalesLetterVersionID,
			rec.WorkflowSetupID,
			rec.NotificationTimestamp.Format(time.RFC3339),
			rec.RecipientList,
			rec.CCRecipient,
			rec.SubjectText,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write report row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize report: %w", err)
	}
	s.logger.Info("Notification report generated", "rows", len(records))
	return buf.Bytes(), nil
}
