package dto

import (
	"lodge/internal/domains/guest/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/timezone"
)

type GuestLookupResponse struct {
	GuestExists  bool   `json:"guest_exists"`
	GuestID      string `json:"guest_id,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	IDVerified   bool   `json:"id_verified"`
	IDProofType  string `json:"id_proof_type,omitempty"`
	IDFrontImage string `json:"id_front_image,omitempty"`
	IDBackImage  string `json:"id_back_image,omitempty"`
	FirstStayAt  string `json:"first_stay_at,omitempty"`
	LastStayAt   string `json:"last_stay_at,omitempty"`
}

func (g *GuestLookupResponse) FromRow(row model.LookupRow) {
	g.GuestExists = row.ID != constant.Empty
	g.GuestID = row.ID
	g.FullName = row.FullName
	g.PhoneNumber = row.PhoneNumber
	g.IDVerified = row.IDVerified
	g.IDProofType = row.IDProofType

	// Image references are only handed out for verified identities, an
	// unverified record has to be re-documented at check-in anyway.
	if row.IDVerified {
		g.IDFrontImage = row.IDFrontImage
		g.IDBackImage = row.IDBackImage
	}

	if row.FirstStayAt != nil {
		g.FirstStayAt = timezone.Format(*row.FirstStayAt, constant.DateFormat)
	}

	if row.LastStayAt != nil {
		g.LastStayAt = timezone.Format(*row.LastStayAt, constant.DateFormat)
	}
}

type GuestResponse struct {
	ID            string `json:"id"`
	BookingID     string `json:"booking_id"`
	FullName      string `json:"full_name"`
	PhoneNumber   string `json:"phone_number"`
	IDProofType   string `json:"id_proof_type"`
	IDProofNumber string `json:"id_proof_number"`
	Address       string `json:"address"`
	IDVerified    bool   `json:"id_verified"`
	IsPrimary     bool   `json:"is_primary"`
	gDto.Metadata
}

func (g *GuestResponse) FromModel(model model.Guest) {
	g.ID = model.ID
	g.BookingID = model.BookingID
	g.FullName = model.FullName
	g.PhoneNumber = model.PhoneNumber
	g.IDProofType = model.IDProofType
	g.IDProofNumber = model.IDProofNumber
	g.Address = model.Address
	g.IDVerified = model.IDVerified
	g.IsPrimary = model.IsPrimary
	g.Metadata.FromModel(model.Metadata)
}

type GetGuestsResponse struct {
	Guests    []GuestResponse `json:"guests"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (g *GetGuestsResponse) FromModels(models []model.Guest, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Guests = make([]GuestResponse, len(models))
	for i, mod := range models {
		g.Guests[i].FromModel(mod)
	}
}
