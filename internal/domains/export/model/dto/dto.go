package dto

import (
	"time"

	"lodge/shared/constant"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

// ExportRequest selects the bookings to export. The window is inclusive and
// interpreted in the application timezone.
type ExportRequest struct {
	BookingIDs []string `json:"booking_ids" validate:"required,min=1,dive,uuid"`
	StartDate  string   `json:"start_date"  validate:"required"`
	EndDate    string   `json:"end_date"    validate:"required"`
}

func (e *ExportRequest) Window() (start, end time.Time, err error) {
	start, err = timezone.Parse(constant.DateOnlyFormat, e.StartDate)
	if err != nil {
		return start, end, failure.BadRequestFromString("start_date must be YYYY-MM-DD") // nolint:wrapcheck
	}

	end, err = timezone.Parse(constant.DateOnlyFormat, e.EndDate)
	if err != nil {
		return start, end, failure.BadRequestFromString("end_date must be YYYY-MM-DD") // nolint:wrapcheck
	}

	return timezone.StartOfDay(start), timezone.EndOfDay(end), nil
}

// ArchiveRequest additionally carries an optional archive password.
type ArchiveRequest struct {
	ExportRequest
	Password string `json:"password" validate:"omitempty,min=4"`
}

// Record is one booking flattened for compliance output: the primary guest
// plus the count of everyone who came along.
type Record struct {
	BookingID        string
	RoomNumber       string
	GuestName        string
	PhoneNumber      string
	IDProofType      string
	IDProofNumber    string
	Address          string
	FrontImage       string
	BackImage        string
	CheckIn          time.Time
	CheckOut         *time.Time
	AdditionalGuests int
}

// Documented reports whether both identification images are on file.
func (r Record) Documented() bool {
	return r.FrontImage != constant.Empty && r.BackImage != constant.Empty
}

// FileResponse is a rendered export handed back as a download.
type FileResponse struct {
	FileName    string
	ContentType string
	Data        []byte
}
