package model

import "lodge/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID           = "id"
	FieldRoomNumber   = "room_number"
	FieldFloor        = "floor"
	FieldRoomType     = "room_type"
	FieldBasePrice    = "base_price"
	FieldACCharge     = "ac_charge"
	FieldGeyserCharge = "geyser_charge"
	FieldHasAC        = "has_ac"
	FieldHasGeyser    = "has_geyser"
	FieldStatus       = "status"
	FieldDescription  = "description"
)

type Room struct {
	ID           string  `db:"id"`
	RoomNumber   string  `db:"room_number"`
	Floor        int     `db:"floor"`
	RoomType     string  `db:"room_type"`
	BasePrice    float64 `db:"base_price"`
	ACCharge     float64 `db:"ac_charge"`
	GeyserCharge float64 `db:"geyser_charge"`
	HasAC        bool    `db:"has_ac"`
	HasGeyser    bool    `db:"has_geyser"`
	Status       string  `db:"status"`
	Description  string  `db:"description"`
	model.Metadata
}
