package model

import (
	"time"

	"lodge/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldRoomID           = "room_id"
	FieldCheckIn          = "check_in"
	FieldExpectedCheckout = "expected_checkout"
	FieldCheckOut         = "check_out"
	FieldStatus           = "status"
	FieldACOpted          = "ac_opted"
	FieldGeyserOpted      = "geyser_opted"
	FieldBasePrice        = "base_price"
	FieldACCharge         = "ac_charge"
	FieldGeyserCharge     = "geyser_charge"
	FieldTotalAmount      = "total_amount"
	FieldAdvancePaid      = "advance_paid"
	FieldExtraCharges     = "extra_charges"
	FieldNotes            = "notes"
)

// Booking snapshots the room's price components at creation time, so later
// tariff changes never rewrite history. total_amount always equals
// base_price plus the opted AC and geyser charges.
type Booking struct {
	ID               string     `db:"id"`
	RoomID           string     `db:"room_id"`
	CheckIn          time.Time  `db:"check_in"`
	ExpectedCheckout time.Time  `db:"expected_checkout"`
	CheckOut         *time.Time `db:"check_out"`
	Status           string     `db:"status"`
	ACOpted          bool       `db:"ac_opted"`
	GeyserOpted      bool       `db:"geyser_opted"`
	BasePrice        float64    `db:"base_price"`
	ACCharge         float64    `db:"ac_charge"`
	GeyserCharge     float64    `db:"geyser_charge"`
	TotalAmount      float64    `db:"total_amount"`
	AdvancePaid      float64    `db:"advance_paid"`
	ExtraCharges     float64    `db:"extra_charges"`
	Notes            string     `db:"notes"`

	RoomNumber string `db:"room_number" table:"rooms"`
	RoomType   string `db:"room_type"   table:"rooms"`
	RoomFloor  int    `db:"floor"       table:"rooms"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = bookings.room_id"
}

// BalanceDue is what the guest still owes at checkout, displayed only. A
// negative value means the advance exceeded the bill.
func (b Booking) BalanceDue() float64 {
	return b.TotalAmount - b.AdvancePaid
}
