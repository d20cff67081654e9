package dto

import (
	"lodge/internal/domains/room/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	RoomNumber   string  `json:"room_number"   validate:"required,max=10"`
	Floor        int     `json:"floor"         validate:"required,min=1"`
	RoomType     string  `json:"room_type"     validate:"required,oneof=standard luxury penthouse function_hall"`
	BasePrice    float64 `json:"base_price"    validate:"required,min=0"`
	ACCharge     float64 `json:"ac_charge"     validate:"omitempty,min=0"`
	GeyserCharge float64 `json:"geyser_charge" validate:"omitempty,min=0"`
	HasAC        bool    `json:"has_ac"`
	HasGeyser    bool    `json:"has_geyser"`
	Description  string  `json:"description"   validate:"omitempty,max=500"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	return model.Room{
		ID:           uuid.NewString(),
		RoomNumber:   c.RoomNumber,
		Floor:        c.Floor,
		RoomType:     c.RoomType,
		BasePrice:    c.BasePrice,
		ACCharge:     c.ACCharge,
		GeyserCharge: c.GeyserCharge,
		HasAC:        c.HasAC,
		HasGeyser:    c.HasGeyser,
		Status:       constant.RoomStatusAvailable,
		Description:  c.Description,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomStatusRequest struct {
	Status string `db:"status" json:"status" validate:"required,oneof=available cleaning maintenance"`
}

type UpdateRoomPricingRequest struct {
	BasePrice    *float64 `db:"base_price"    json:"base_price"    validate:"omitempty,min=0"`
	ACCharge     *float64 `db:"ac_charge"     json:"ac_charge"     validate:"omitempty,min=0"`
	GeyserCharge *float64 `db:"geyser_charge" json:"geyser_charge" validate:"omitempty,min=0"`
}

type RoomResponse struct {
	ID           string  `json:"id"`
	RoomNumber   string  `json:"room_number"`
	Floor        int     `json:"floor"`
	RoomType     string  `json:"room_type"`
	BasePrice    float64 `json:"base_price"`
	ACCharge     float64 `json:"ac_charge"`
	GeyserCharge float64 `json:"geyser_charge"`
	HasAC        bool    `json:"has_ac"`
	HasGeyser    bool    `json:"has_geyser"`
	Status       string  `json:"status"`
	Description  string  `json:"description"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.Floor = model.Floor
	r.RoomType = model.RoomType
	r.BasePrice = model.BasePrice
	r.ACCharge = model.ACCharge
	r.GeyserCharge = model.GeyserCharge
	r.HasAC = model.HasAC
	r.HasGeyser = model.HasGeyser
	r.Status = model.Status
	r.Description = model.Description
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
