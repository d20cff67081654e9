package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"

	"lodge/internal/domains/export/model/dto"
	"lodge/shared/constant"
	"lodge/shared/timezone"
)

const (
	pdfFontFamily = "Helvetica"
	imageBoxWidth = 80.0
	imageRowStep  = 75.0
)

func (s *serviceImpl) newReportPDF(orientation string) *fpdf.Fpdf {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	hotelName := s.cfg.Hotel.Name

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFontFamily, "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb} | %s - Confidential", pdf.PageNo(), hotelName), "", 0, "C", false, 0, "")
	})

	return pdf
}

func (s *serviceImpl) writeReportHeader(pdf *fpdf.Fpdf, title string, req dto.ExportRequest, total int) {
	pdf.SetFont(pdfFontFamily, "B", 16)
	pdf.CellFormat(0, 8, s.cfg.Hotel.Name, "", 1, "C", false, 0, "")

	pdf.SetFont(pdfFontFamily, "", 10)
	pdf.CellFormat(0, 6, s.cfg.Hotel.Address, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(pdfFontFamily, "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")

	pdf.SetFont(pdfFontFamily, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s to %s", req.StartDate, req.EndDate), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Generated on: "+timezone.Format(timezone.Now(), constant.ReportTimestamp), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Guests: %d", total), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func writeTable(pdf *fpdf.Fpdf, widths []float64, headers []string, rows [][]string) {
	pdf.SetFont(pdfFontFamily, "B", 9)
	pdf.SetFillColor(230, 230, 230)

	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}

	pdf.Ln(-1)
	pdf.SetFont(pdfFontFamily, "", 9)

	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}

		pdf.Ln(-1)
	}
}

func outputPDF(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer

	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *serviceImpl) renderPolicePDF(records []dto.Record, req dto.ExportRequest) ([]byte, error) {
	pdf := s.newReportPDF("L")
	pdf.AddPage()
	s.writeReportHeader(pdf, "POLICE VERIFICATION REPORT", req, len(records))

	widths := []float64{12, 25, 55, 35, 35, 45, 30, 30}
	headers := []string{"#", "Room", "Guest Name", "Phone", "ID Type", "ID Number", "Check-in", "Check-out"}

	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			record.RoomNumber,
			record.GuestName,
			record.PhoneNumber,
			displayProofType(record.IDProofType),
			record.IDProofNumber,
			timezone.Format(record.CheckIn, constant.ReportTimestamp),
			formatCheckOut(record.CheckOut, constant.ReportTimestamp),
		}
	}

	writeTable(pdf, widths, headers, rows)

	return outputPDF(pdf)
}

func (s *serviceImpl) renderRegisterPDF(records []dto.Record, req dto.ExportRequest) ([]byte, error) {
	pdf := s.newReportPDF("L")
	pdf.AddPage()
	s.writeReportHeader(pdf, "GUEST STAY REGISTER", req, len(records))

	widths := []float64{10, 18, 40, 28, 28, 38, 56, 26, 26}
	headers := []string{"#", "Room", "Guest Name", "Phone", "ID Type", "ID Number", "Address", "Check-in", "+Guests"}

	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			record.RoomNumber,
			record.GuestName,
			record.PhoneNumber,
			displayProofType(record.IDProofType),
			record.IDProofNumber,
			truncate(record.Address, 40),
			timezone.Format(record.CheckIn, constant.ReportTimestamp),
			fmt.Sprintf("%d", record.AdditionalGuests),
		}
	}

	writeTable(pdf, widths, headers, rows)

	return outputPDF(pdf)
}

// renderDetailedPDF writes one page per guest with the identification images
// embedded. Images are fetched one at a time, a failed fetch leaves a
// placeholder instead of aborting the whole report.
func (s *serviceImpl) renderDetailedPDF(ctx context.Context, records []dto.Record, req dto.ExportRequest) ([]byte, error) {
	pdf := s.newReportPDF("P")
	pdf.AddPage()
	s.writeReportHeader(pdf, "GUEST REGISTER - DETAILED", req, len(records))

	for i, record := range records {
		if i > 0 {
			pdf.AddPage()
		}

		pdf.SetFillColor(45, 45, 45)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont(pdfFontFamily, "B", 12)
		pdf.CellFormat(0, 10, fmt.Sprintf("  Room %s - %s", record.RoomNumber, record.GuestName), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)

		detailLine(pdf, "Phone", record.PhoneNumber)
		detailLine(pdf, "ID Type", displayProofType(record.IDProofType))
		detailLine(pdf, "ID Number", record.IDProofNumber)
		detailLine(pdf, "Address", record.Address)
		detailLine(pdf, "Check-in", timezone.Format(record.CheckIn, constant.ReportTimestamp))
		detailLine(pdf, "Check-out", formatCheckOut(record.CheckOut, constant.ReportTimestamp))
		detailLine(pdf, "Additional Guests", fmt.Sprintf("%d", record.AdditionalGuests))
		pdf.Ln(4)

		y := pdf.GetY()
		s.placeImage(ctx, pdf, record.BookingID+"-front", "ID Front", record.FrontImage, 15, y)
		s.placeImage(ctx, pdf, record.BookingID+"-back", "ID Back", record.BackImage, 110, y)
		pdf.SetY(y + imageRowStep)

		pdf.SetDrawColor(180, 180, 180)
		pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	}

	return outputPDF(pdf)
}

func detailLine(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont(pdfFontFamily, "B", 10)
	pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont(pdfFontFamily, "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (s *serviceImpl) placeImage(ctx context.Context, pdf *fpdf.Fpdf, name, caption, ref string, x, y float64) {
	pdf.SetXY(x, y)
	pdf.SetFont(pdfFontFamily, "B", 9)
	pdf.CellFormat(imageBoxWidth, 5, caption, "", 0, "L", false, 0, "")

	data, contentType, err := s.fetchImage(ctx, ref)
	if err != nil {
		log.Error().Err(err).Str("caption", caption).Msg("failed to fetch id image for report")

		pdf.SetXY(x, y+6)
		pdf.SetFont(pdfFontFamily, "I", 9)
		pdf.CellFormat(imageBoxWidth, 5, "(image unavailable)", "", 0, "L", false, 0, "")

		return
	}

	imageType := "JPG"
	if contentType == "image/png" {
		imageType = "PNG"
	}

	options := fpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y+6, imageBoxWidth, 0, false, options, 0, "")
}

func formatCheckOut(checkOut *time.Time, layout string) string {
	if checkOut == nil {
		return "-"
	}

	return timezone.Format(*checkOut, layout)
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}

	return value[:max-3] + "..."
}
