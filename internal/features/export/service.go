package export

import (
	"context"
	"fmt"
	"time"

	"go-portal/internal/common/apperr"
	"go-portal/internal/features/feedback"
	"go-portal/internal/features/portal"

	"github.com/xuri/excelize/v2"
)

type ExportService interface {
	ExportInbox(ctx context.Context, userID string) ([]byte, string, error)
	ExportLeads(ctx context.Context, userID, portalID string) ([]byte, string, error)
}

type ExportServiceImpl struct {
	Feedback feedback.FeedbackService
	Portals  portal.PortalService
}

func NewExportService(feedbackService feedback.FeedbackService, portalService portal.PortalService) ExportService {
	return &ExportServiceImpl{
		Feedback: feedbackService,
		Portals:  portalService,
	}
}

func writeSheet(sheetName string, columns []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportInbox flattens the grouped inbox into one sheet, newest first.
func (s *ExportServiceImpl) ExportInbox(ctx context.Context, userID string) ([]byte, string, error) {
	groups, err := s.Feedback.Inbox(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	columns := []string{"Portal", "Client", "Email", "Message", "Read", "Received At"}
	var rows [][]any
	for _, g := range groups {
		for _, m := range g.Messages {
			rows = append(rows, []any{
				g.PortalName,
				m.ClientName,
				m.ClientEmail,
				m.Message,
				bool(m.IsRead),
				m.CreatedAt.Format(time.RFC3339),
			})
		}
	}

	data, err := writeSheet("Inbox", columns, rows)
	if err != nil {
		return nil, "", apperr.Internal("failed to build inbox export", err)
	}

	filename := fmt.Sprintf("inbox-%s.xlsx", time.Now().Format("2006-01-02"))
	return data, filename, nil
}

func (s *ExportServiceImpl) ExportLeads(ctx context.Context, userID, portalID string) ([]byte, string, error) {
	p, err := s.Portals.GetPortal(ctx, userID, portalID)
	if err != nil {
		return nil, "", err
	}
	if p.Modules.Leads == nil {
		return nil, "", apperr.NotFound("this portal has no leads module")
	}

	columns := []string{"Name", "Email", "Phone", "Status", "Value", "Source"}
	var rows [][]any
	for _, l := range p.Modules.Leads.Leads {
		rows = append(rows, []any{l.Name, l.Email, l.Phone, string(l.Status), l.Value, l.Source})
	}

	data, err := writeSheet("Leads", columns, rows)
	if err != nil {
		return nil, "", apperr.Internal("failed to build leads export", err)
	}

	filename := fmt.Sprintf("%s-leads.xlsx", p.Slug)
	return data, filename, nil
}
