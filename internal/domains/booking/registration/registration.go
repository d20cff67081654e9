// Package registration models the check-in form as an immutable state plus a
// reducer. Handlers feed edits in as actions, and the same scoring that
// drives the form's progress bar gates the final submission.
package registration

import (
	"errors"
	"slices"
	"time"

	"lodge/shared/constant"
)

// Variant tells how the primary guest entered the form.
type Variant string

const (
	NewGuest                 Variant = "new"
	ReturningVerifiedGuest   Variant = "returning_verified"
	ReturningUnverifiedGuest Variant = "returning_unverified"
)

// Field names a guest form field for SetGuestField.
type Field string

const (
	FieldFullName      Field = "full_name"
	FieldPhoneNumber   Field = "phone_number"
	FieldIDProofType   Field = "id_proof_type"
	FieldIDProofNumber Field = "id_proof_number"
	FieldAddress       Field = "address"
)

// Progress weights. The identity block is worth 55 points in total, granted
// flat when a returning verified guest's documents are waived.
const (
	weightPrimaryName  = 20
	weightPrimaryPhone = 10
	weightDeparture    = 15
	weightIDProofType  = 15
	weightIDFrontImage = 20
	weightIDBackImage  = 20
	weightIDWaived     = weightIDProofType + weightIDFrontImage + weightIDBackImage

	SubmitThreshold = 85
)

var (
	ErrNoGuests            = errors.New("at least one guest is required")
	ErrGuestIndex          = errors.New("guest index out of range")
	ErrPrimaryName         = errors.New("primary guest name is required")
	ErrPrimaryPhone        = errors.New("primary guest phone number is required")
	ErrGuestName           = errors.New("every guest needs a name")
	ErrDeparture           = errors.New("expected checkout is required")
	ErrResolvedGuest       = errors.New("returning guest must reference a resolved guest record")
	ErrIDProofType         = errors.New("unknown id proof type")
	ErrIdentityIncomplete  = errors.New("primary guest identification is incomplete")
	ErrCannotRemovePrimary = errors.New("primary guest cannot be removed")
)

var idProofTypes = []string{
	constant.IDProofAadhaar,
	constant.IDProofPassport,
	constant.IDProofDrivingLicense,
	constant.IDProofVoterID,
}

// GuestForm is one guest's slice of the form.
type GuestForm struct {
	Variant         Variant
	ResolvedGuestID string
	FullName        string
	PhoneNumber     string
	IDProofType     string
	IDProofNumber   string
	Address         string
	FrontImage      string
	BackImage       string
}

// Waived reports whether this guest's identity documents are waived because
// a verified record already exists.
func (g GuestForm) Waived() bool {
	return g.Variant == ReturningVerifiedGuest && g.ResolvedGuestID != constant.Empty
}

// Documented reports whether the guest carries a complete document set.
func (g GuestForm) Documented() bool {
	return g.IDProofType != constant.Empty &&
		g.FrontImage != constant.Empty &&
		g.BackImage != constant.Empty
}

// State is the whole form. Guests[0] is the primary guest. State values are
// never mutated, Apply returns a fresh copy.
type State struct {
	RoomID           string
	Guests           []GuestForm
	ACOpted          bool
	GeyserOpted      bool
	ExpectedCheckout time.Time
	AdvancePaid      float64
	Notes            string
}

// New returns an empty form with a single blank primary guest.
func New() State {
	return State{Guests: []GuestForm{{Variant: NewGuest}}}
}

func (s State) clone() State {
	next := s
	next.Guests = slices.Clone(s.Guests)

	return next
}

// Action is a single edit to the form.
type Action interface {
	apply(State) (State, error)
}

// Apply runs one action against the state and returns the resulting state.
// The input state is left untouched.
func Apply(state State, action Action) (State, error) {
	return action.apply(state)
}

type addGuest struct{}

func AddGuest() Action { return addGuest{} }

func (addGuest) apply(s State) (State, error) {
	next := s.clone()
	next.Guests = append(next.Guests, GuestForm{Variant: NewGuest})

	return next, nil
}

type removeGuest struct{ index int }

func RemoveGuest(index int) Action { return removeGuest{index: index} }

func (a removeGuest) apply(s State) (State, error) {
	if a.index <= 0 {
		if a.index == 0 {
			return s, ErrCannotRemovePrimary
		}

		return s, ErrGuestIndex
	}

	if a.index >= len(s.Guests) {
		return s, ErrGuestIndex
	}

	next := s.clone()
	next.Guests = slices.Delete(next.Guests, a.index, a.index+1)

	return next, nil
}

type setGuestField struct {
	index int
	field Field
	value string
}

func SetGuestField(index int, field Field, value string) Action {
	return setGuestField{index: index, field: field, value: value}
}

func (a setGuestField) apply(s State) (State, error) {
	if a.index < 0 || a.index >= len(s.Guests) {
		return s, ErrGuestIndex
	}

	next := s.clone()
	guest := &next.Guests[a.index]

	switch a.field {
	case FieldFullName:
		guest.FullName = a.value
	case FieldPhoneNumber:
		guest.PhoneNumber = a.value
	case FieldIDProofType:
		guest.IDProofType = a.value
	case FieldIDProofNumber:
		guest.IDProofNumber = a.value
	case FieldAddress:
		guest.Address = a.value
	}

	return next, nil
}

type setGuestImage struct {
	index int
	side  string
	ref   string
}

func SetGuestImage(index int, side, ref string) Action {
	return setGuestImage{index: index, side: side, ref: ref}
}

func (a setGuestImage) apply(s State) (State, error) {
	if a.index < 0 || a.index >= len(s.Guests) {
		return s, ErrGuestIndex
	}

	next := s.clone()

	switch a.side {
	case constant.ImageSideFront:
		next.Guests[a.index].FrontImage = a.ref
	case constant.ImageSideBack:
		next.Guests[a.index].BackImage = a.ref
	}

	return next, nil
}

type setVariant struct {
	index           int
	variant         Variant
	resolvedGuestID string
}

func SetVariant(index int, variant Variant, resolvedGuestID string) Action {
	return setVariant{index: index, variant: variant, resolvedGuestID: resolvedGuestID}
}

func (a setVariant) apply(s State) (State, error) {
	if a.index < 0 || a.index >= len(s.Guests) {
		return s, ErrGuestIndex
	}

	next := s.clone()
	next.Guests[a.index].Variant = a.variant
	next.Guests[a.index].ResolvedGuestID = a.resolvedGuestID

	return next, nil
}

type setRoom struct{ roomID string }

func SetRoom(roomID string) Action { return setRoom{roomID: roomID} }

func (a setRoom) apply(s State) (State, error) {
	next := s.clone()
	next.RoomID = a.roomID

	return next, nil
}

type toggleAC struct{}

func ToggleAC() Action { return toggleAC{} }

func (toggleAC) apply(s State) (State, error) {
	next := s.clone()
	next.ACOpted = !next.ACOpted

	return next, nil
}

type toggleGeyser struct{}

func ToggleGeyser() Action { return toggleGeyser{} }

func (toggleGeyser) apply(s State) (State, error) {
	next := s.clone()
	next.GeyserOpted = !next.GeyserOpted

	return next, nil
}

type setExpectedCheckout struct{ at time.Time }

func SetExpectedCheckout(at time.Time) Action { return setExpectedCheckout{at: at} }

func (a setExpectedCheckout) apply(s State) (State, error) {
	next := s.clone()
	next.ExpectedCheckout = a.at

	return next, nil
}

type setAdvancePaid struct{ amount float64 }

func SetAdvancePaid(amount float64) Action { return setAdvancePaid{amount: amount} }

func (a setAdvancePaid) apply(s State) (State, error) {
	next := s.clone()
	next.AdvancePaid = a.amount

	return next, nil
}

type setNotes struct{ notes string }

func SetNotes(notes string) Action { return setNotes{notes: notes} }

func (a setNotes) apply(s State) (State, error) {
	next := s.clone()
	next.Notes = a.notes

	return next, nil
}

// Progress scores the form 0-100. The identity block of the primary guest is
// worth 55 points, flat when waived for a returning verified guest.
func Progress(s State) int {
	if len(s.Guests) == 0 {
		return 0
	}

	primary := s.Guests[0]
	score := 0

	if primary.FullName != constant.Empty {
		score += weightPrimaryName
	}

	if primary.PhoneNumber != constant.Empty {
		score += weightPrimaryPhone
	}

	if !s.ExpectedCheckout.IsZero() {
		score += weightDeparture
	}

	if primary.Waived() {
		score += weightIDWaived

		return score
	}

	if primary.IDProofType != constant.Empty {
		score += weightIDProofType
	}

	if primary.FrontImage != constant.Empty {
		score += weightIDFrontImage
	}

	if primary.BackImage != constant.Empty {
		score += weightIDBackImage
	}

	return score
}

// CanSubmit reports whether the form has crossed the submission threshold.
func CanSubmit(s State) bool {
	return Progress(s) >= SubmitThreshold
}

// IdentityComplete is the hard gate re-checked at submission: either the
// primary guest is a returning verified guest, or a full document set was
// captured.
func IdentityComplete(s State) bool {
	if len(s.Guests) == 0 {
		return false
	}

	primary := s.Guests[0]

	return primary.Waived() || primary.Documented()
}

// Validate checks the form for submission, dispatching identity rules by the
// primary guest's variant.
func Validate(s State) error {
	if len(s.Guests) == 0 {
		return ErrNoGuests
	}

	primary := s.Guests[0]

	if primary.FullName == constant.Empty {
		return ErrPrimaryName
	}

	if primary.PhoneNumber == constant.Empty {
		return ErrPrimaryPhone
	}

	if s.ExpectedCheckout.IsZero() {
		return ErrDeparture
	}

	for _, guest := range s.Guests[1:] {
		if guest.FullName == constant.Empty {
			return ErrGuestName
		}
	}

	for _, guest := range s.Guests {
		if guest.IDProofType != constant.Empty && !slices.Contains(idProofTypes, guest.IDProofType) {
			return ErrIDProofType
		}
	}

	switch primary.Variant {
	case ReturningVerifiedGuest:
		if primary.ResolvedGuestID == constant.Empty {
			return ErrResolvedGuest
		}
	case NewGuest, ReturningUnverifiedGuest:
		if !primary.Documented() {
			return ErrIdentityIncomplete
		}
	}

	if !IdentityComplete(s) {
		return ErrIdentityIncomplete
	}

	return nil
}
