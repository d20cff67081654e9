package service

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"lodge/internal/domains/export/model/dto"
	"lodge/shared/constant"
	"lodge/shared/timezone"
)

var csvHeader = []string{
	"S.No", "Room Number", "Guest Name", "Phone", "ID Type", "ID Number",
	"Address", "Check-in Date", "Check-in Time", "Check-out Date",
	"Check-out Time", "Additional Guests",
}

func renderCSV(records []dto.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, record := range records {
		checkOutDate, checkOutTime := "", ""
		if record.CheckOut != nil {
			checkOutDate = timezone.Format(*record.CheckOut, constant.ReportDayFormat)
			checkOutTime = timezone.Format(*record.CheckOut, "15:04")
		}

		row := []string{
			fmt.Sprintf("%d", i+1),
			record.RoomNumber,
			record.GuestName,
			record.PhoneNumber,
			displayProofType(record.IDProofType),
			record.IDProofNumber,
			record.Address,
			timezone.Format(record.CheckIn, constant.ReportDayFormat),
			timezone.Format(record.CheckIn, "15:04"),
			checkOutDate,
			checkOutTime,
			fmt.Sprintf("%d", record.AdditionalGuests),
		}

		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
