package model

import (
	"time"

	"lodge/shared/model"
)

const (
	TableName  = "guests"
	EntityName = "guest"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldFullName      = "full_name"
	FieldPhoneNumber   = "phone_number"
	FieldIDProofType   = "id_proof_type"
	FieldIDProofNumber = "id_proof_number"
	FieldAddress       = "address"
	FieldIDFrontImage  = "id_front_image"
	FieldIDBackImage   = "id_back_image"
	FieldIDVerified    = "id_verified"
	FieldIsPrimary     = "is_primary"
)

type Guest struct {
	ID            string `db:"id"`
	BookingID     string `db:"booking_id"`
	FullName      string `db:"full_name"`
	PhoneNumber   string `db:"phone_number"`
	IDProofType   string `db:"id_proof_type"`
	IDProofNumber string `db:"id_proof_number"`
	Address       string `db:"address"`
	IDFrontImage  string `db:"id_front_image"`
	IDBackImage   string `db:"id_back_image"`
	IDVerified    bool   `db:"id_verified"`
	IsPrimary     bool   `db:"is_primary"`
	model.Metadata
}

// LookupRow is the projection returned by the phone lookup query, the guest's
// latest record joined with the span of their stays.
type LookupRow struct {
	ID           string     `db:"id"`
	FullName     string     `db:"full_name"`
	PhoneNumber  string     `db:"phone_number"`
	IDVerified   bool       `db:"id_verified"`
	IDProofType  string     `db:"id_proof_type"`
	IDFrontImage string     `db:"id_front_image"`
	IDBackImage  string     `db:"id_back_image"`
	FirstStayAt  *time.Time `db:"first_stay_at"`
	LastStayAt   *time.Time `db:"last_stay_at"`
}
