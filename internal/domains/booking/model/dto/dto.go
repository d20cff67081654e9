package dto

import (
	"time"

	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/registration"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

type BookingGuestRequest struct {
	Variant         string `json:"variant"           validate:"omitempty,oneof=new returning_verified returning_unverified"`
	ResolvedGuestID string `json:"resolved_guest_id" validate:"omitempty,uuid"`
	FullName        string `json:"full_name"         validate:"omitempty,max=100"`
	PhoneNumber     string `json:"phone_number"      validate:"omitempty,max=20"`
	IDProofType     string `json:"id_proof_type"     validate:"omitempty,oneof=aadhaar passport driving_license voter_id"`
	IDProofNumber   string `json:"id_proof_number"   validate:"omitempty,max=50"`
	Address         string `json:"address"           validate:"omitempty,max=500"`
	FrontImage      string `json:"front_image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
	BackImage       string `json:"back_image"        validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
}

func (g BookingGuestRequest) toForm() registration.GuestForm {
	variant := registration.Variant(g.Variant)
	if variant == "" {
		variant = registration.NewGuest
	}

	return registration.GuestForm{
		Variant:         variant,
		ResolvedGuestID: g.ResolvedGuestID,
		FullName:        g.FullName,
		PhoneNumber:     g.PhoneNumber,
		IDProofType:     g.IDProofType,
		IDProofNumber:   g.IDProofNumber,
		Address:         g.Address,
		FrontImage:      g.FrontImage,
		BackImage:       g.BackImage,
	}
}

type CreateBookingRequest struct {
	RoomID           string                `json:"room_id"           validate:"required,uuid"`
	Guests           []BookingGuestRequest `json:"guests"            validate:"required,min=1,dive"`
	ACOpted          bool                  `json:"ac_opted"`
	GeyserOpted      bool                  `json:"geyser_opted"`
	ExpectedCheckout string                `json:"expected_checkout" validate:"required"`
	AdvancePaid      float64               `json:"advance_paid"      validate:"omitempty,min=0"`
	Notes            string                `json:"notes"             validate:"omitempty,max=1000"`
}

func (c *CreateBookingRequest) ToState() (registration.State, error) {
	checkout, err := time.Parse(constant.DateFormat, c.ExpectedCheckout)
	if err != nil {
		return registration.State{}, failure.BadRequestFromString("expected_checkout must be RFC3339") // nolint:wrapcheck
	}

	guests := make([]registration.GuestForm, len(c.Guests))
	for i, guest := range c.Guests {
		guests[i] = guest.toForm()
	}

	return registration.State{
		RoomID:           c.RoomID,
		Guests:           guests,
		ACOpted:          c.ACOpted,
		GeyserOpted:      c.GeyserOpted,
		ExpectedCheckout: checkout,
		AdvancePaid:      c.AdvancePaid,
		Notes:            c.Notes,
	}, nil
}

// DraftBookingRequest is the same shape as CreateBookingRequest with nothing
// required, so half-filled forms can still be scored.
type DraftBookingRequest struct {
	RoomID           string                `json:"room_id"           validate:"omitempty,uuid"`
	Guests           []BookingGuestRequest `json:"guests"            validate:"omitempty,dive"`
	ACOpted          bool                  `json:"ac_opted"`
	GeyserOpted      bool                  `json:"geyser_opted"`
	ExpectedCheckout string                `json:"expected_checkout" validate:"omitempty"`
	AdvancePaid      float64               `json:"advance_paid"      validate:"omitempty,min=0"`
	Notes            string                `json:"notes"             validate:"omitempty,max=1000"`
}

func (d *DraftBookingRequest) ToState() registration.State {
	checkout, err := time.Parse(constant.DateFormat, d.ExpectedCheckout)
	if err != nil {
		checkout = time.Time{}
	}

	guests := make([]registration.GuestForm, len(d.Guests))
	for i, guest := range d.Guests {
		guests[i] = guest.toForm()
	}

	return registration.State{
		RoomID:           d.RoomID,
		Guests:           guests,
		ACOpted:          d.ACOpted,
		GeyserOpted:      d.GeyserOpted,
		ExpectedCheckout: checkout,
		AdvancePaid:      d.AdvancePaid,
		Notes:            d.Notes,
	}
}

type DraftBookingResponse struct {
	Progress  int    `json:"progress"`
	CanSubmit bool   `json:"can_submit"`
	Complete  bool   `json:"identity_complete"`
	Message   string `json:"message,omitempty"`
}

func (d *DraftBookingResponse) FromState(state registration.State) {
	d.Progress = registration.Progress(state)
	d.CanSubmit = registration.CanSubmit(state)
	d.Complete = registration.IdentityComplete(state)

	if err := registration.Validate(state); err != nil {
		d.Message = err.Error()
	}
}

type CheckoutBookingRequest struct {
	RoomID       string  `json:"room_id"       validate:"required,uuid"`
	ExtraCharges float64 `json:"extra_charges" validate:"omitempty,min=0"`
}

type CheckoutBookingResponse struct {
	BookingID    string  `json:"booking_id"`
	Status       string  `json:"status"`
	CheckOut     string  `json:"check_out"`
	TotalAmount  float64 `json:"total_amount"`
	AdvancePaid  float64 `json:"advance_paid"`
	ExtraCharges float64 `json:"extra_charges"`
	BalanceDue   float64 `json:"balance_due"`
}

type CreateBookingResponse struct {
	BookingID   string  `json:"booking_id"`
	Status      string  `json:"status"`
	CheckIn     string  `json:"check_in"`
	TotalAmount float64 `json:"total_amount"`
}

type BookingResponse struct {
	ID               string  `json:"id"`
	RoomID           string  `json:"room_id"`
	RoomNumber       string  `json:"room_number"`
	RoomType         string  `json:"room_type"`
	RoomFloor        int     `json:"room_floor"`
	CheckIn          string  `json:"check_in"`
	ExpectedCheckout string  `json:"expected_checkout"`
	CheckOut         string  `json:"check_out,omitempty"`
	Status           string  `json:"status"`
	ACOpted          bool    `json:"ac_opted"`
	GeyserOpted      bool    `json:"geyser_opted"`
	BasePrice        float64 `json:"base_price"`
	ACCharge         float64 `json:"ac_charge"`
	GeyserCharge     float64 `json:"geyser_charge"`
	TotalAmount      float64 `json:"total_amount"`
	AdvancePaid      float64 `json:"advance_paid"`
	ExtraCharges     float64 `json:"extra_charges"`
	BalanceDue       float64 `json:"balance_due"`
	Notes            string  `json:"notes,omitempty"`
	gDto.Metadata
}

func (b *BookingResponse) FromModel(model model.Booking) {
	b.ID = model.ID
	b.RoomID = model.RoomID
	b.RoomNumber = model.RoomNumber
	b.RoomType = model.RoomType
	b.RoomFloor = model.RoomFloor
	b.CheckIn = timezone.Format(model.CheckIn, constant.DateFormat)
	b.ExpectedCheckout = timezone.Format(model.ExpectedCheckout, constant.DateFormat)
	b.Status = model.Status
	b.ACOpted = model.ACOpted
	b.GeyserOpted = model.GeyserOpted
	b.BasePrice = model.BasePrice
	b.ACCharge = model.ACCharge
	b.GeyserCharge = model.GeyserCharge
	b.TotalAmount = model.TotalAmount
	b.AdvancePaid = model.AdvancePaid
	b.ExtraCharges = model.ExtraCharges
	b.BalanceDue = model.BalanceDue()
	b.Notes = model.Notes
	b.Metadata.FromModel(model.Metadata)

	if model.CheckOut != nil {
		b.CheckOut = timezone.Format(*model.CheckOut, constant.DateFormat)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (g *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		g.Bookings[i].FromModel(mod)
	}
}

// Booking lifecycle events published to Kafka.
const (
	EventBookingCreated    = "booking.created"
	EventBookingCheckedOut = "booking.checked_out"
)

type BookingEventMessage struct {
	Event       string  `json:"event"`
	BookingID   string  `json:"booking_id"`
	RoomID      string  `json:"room_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	OccurredAt  string  `json:"occurred_at"`
}
