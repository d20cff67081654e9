package registration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodge/internal/domains/booking/registration"
	"lodge/shared/constant"
)

func documentedForm(t *testing.T) registration.State {
	t.Helper()

	state := registration.New()

	actions := []registration.Action{
		registration.SetRoom("room-1"),
		registration.SetGuestField(0, registration.FieldFullName, "Ramesh Kumar"),
		registration.SetGuestField(0, registration.FieldPhoneNumber, "9876543210"),
		registration.SetGuestField(0, registration.FieldIDProofType, constant.IDProofAadhaar),
		registration.SetGuestField(0, registration.FieldIDProofNumber, "1234-5678-9012"),
		registration.SetGuestImage(0, constant.ImageSideFront, "data:image/jpeg;base64,Zg=="),
		registration.SetGuestImage(0, constant.ImageSideBack, "data:image/jpeg;base64,Yg=="),
		registration.SetExpectedCheckout(time.Now().Add(24 * time.Hour)),
	}

	for _, action := range actions {
		next, err := registration.Apply(state, action)
		require.NoError(t, err)

		state = next
	}

	return state
}

func TestProgress_Weights(t *testing.T) {
	state := registration.New()
	assert.Equal(t, 0, registration.Progress(state))

	state, err := registration.Apply(state, registration.SetGuestField(0, registration.FieldFullName, "Ramesh Kumar"))
	require.NoError(t, err)
	assert.Equal(t, 20, registration.Progress(state))

	state, err = registration.Apply(state, registration.SetGuestField(0, registration.FieldPhoneNumber, "9876543210"))
	require.NoError(t, err)
	assert.Equal(t, 30, registration.Progress(state))

	state, err = registration.Apply(state, registration.SetExpectedCheckout(time.Now().Add(24*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, 45, registration.Progress(state))

	state, err = registration.Apply(state, registration.SetGuestField(0, registration.FieldIDProofType, constant.IDProofAadhaar))
	require.NoError(t, err)
	assert.Equal(t, 60, registration.Progress(state))

	state, err = registration.Apply(state, registration.SetGuestImage(0, constant.ImageSideFront, "front-ref"))
	require.NoError(t, err)
	assert.Equal(t, 80, registration.Progress(state))
	assert.False(t, registration.CanSubmit(state))

	state, err = registration.Apply(state, registration.SetGuestImage(0, constant.ImageSideBack, "back-ref"))
	require.NoError(t, err)
	assert.Equal(t, 100, registration.Progress(state))
	assert.True(t, registration.CanSubmit(state))
}

func TestProgress_WaiverGrantsFullIdentityBlock(t *testing.T) {
	state := registration.New()

	actions := []registration.Action{
		registration.SetGuestField(0, registration.FieldFullName, "Sita Devi"),
		registration.SetGuestField(0, registration.FieldPhoneNumber, "9123456780"),
		registration.SetExpectedCheckout(time.Now().Add(24 * time.Hour)),
		registration.SetVariant(0, registration.ReturningVerifiedGuest, "guest-42"),
	}

	var err error
	for _, action := range actions {
		state, err = registration.Apply(state, action)
		require.NoError(t, err)
	}

	assert.Equal(t, 100, registration.Progress(state))
	assert.True(t, registration.CanSubmit(state))
	assert.True(t, registration.IdentityComplete(state))
	assert.NoError(t, registration.Validate(state))
}

func TestProgress_ReturningUnverifiedStillNeedsDocuments(t *testing.T) {
	state := registration.New()

	actions := []registration.Action{
		registration.SetGuestField(0, registration.FieldFullName, "Sita Devi"),
		registration.SetGuestField(0, registration.FieldPhoneNumber, "9123456780"),
		registration.SetExpectedCheckout(time.Now().Add(24 * time.Hour)),
		registration.SetVariant(0, registration.ReturningUnverifiedGuest, "guest-42"),
	}

	var err error
	for _, action := range actions {
		state, err = registration.Apply(state, action)
		require.NoError(t, err)
	}

	assert.Equal(t, 45, registration.Progress(state))
	assert.False(t, registration.CanSubmit(state))
	assert.ErrorIs(t, registration.Validate(state), registration.ErrIdentityIncomplete)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	state := registration.New()

	next, err := registration.Apply(state, registration.SetGuestField(0, registration.FieldFullName, "Ramesh Kumar"))
	require.NoError(t, err)

	assert.Equal(t, "", state.Guests[0].FullName)
	assert.Equal(t, "Ramesh Kumar", next.Guests[0].FullName)

	withCompanion, err := registration.Apply(next, registration.AddGuest())
	require.NoError(t, err)

	assert.Len(t, next.Guests, 1)
	assert.Len(t, withCompanion.Guests, 2)
}

func TestRemoveGuest(t *testing.T) {
	state := documentedForm(t)

	state, err := registration.Apply(state, registration.AddGuest())
	require.NoError(t, err)

	_, err = registration.Apply(state, registration.RemoveGuest(0))
	assert.ErrorIs(t, err, registration.ErrCannotRemovePrimary)

	_, err = registration.Apply(state, registration.RemoveGuest(5))
	assert.ErrorIs(t, err, registration.ErrGuestIndex)

	state, err = registration.Apply(state, registration.RemoveGuest(1))
	require.NoError(t, err)
	assert.Len(t, state.Guests, 1)
}

func TestValidate(t *testing.T) {
	base := documentedForm(t)

	tests := []struct {
		name    string
		mutate  func(t *testing.T, s registration.State) registration.State
		wantErr error
	}{
		{
			name:   "complete new guest form",
			mutate: func(_ *testing.T, s registration.State) registration.State { return s },
		},
		{
			name: "missing primary name",
			mutate: func(t *testing.T, s registration.State) registration.State {
				s, err := registration.Apply(s, registration.SetGuestField(0, registration.FieldFullName, ""))
				require.NoError(t, err)

				return s
			},
			wantErr: registration.ErrPrimaryName,
		},
		{
			name: "missing primary phone",
			mutate: func(t *testing.T, s registration.State) registration.State {
				s, err := registration.Apply(s, registration.SetGuestField(0, registration.FieldPhoneNumber, ""))
				require.NoError(t, err)

				return s
			},
			wantErr: registration.ErrPrimaryPhone,
		},
		{
			name: "missing expected checkout",
			mutate: func(t *testing.T, s registration.State) registration.State {
				s, err := registration.Apply(s, registration.SetExpectedCheckout(time.Time{}))
				require.NoError(t, err)

				return s
			},
			wantErr: registration.ErrDeparture,
		},
		{
			name: "companion without a name",
			mutate: func(t *testing.T, s registration.State) registration.State {
				s, err := registration.Apply(s, registration.AddGuest())
				require.NoError(t, err)

				return s
			},
			wantErr: registration.ErrGuestName,
		},
		{
			name: "unknown id proof type",
			mutate: func(t *testing.T, s registration.State) registration.State {
				s, err := registration.Apply(s, registration.SetGuestField(0, registration.FieldIDProofType, "library_card"))
				require.NoError(t, err)

				return s
			},
			wantErr: registration.ErrIDProofType,
		},
		{
			name: "missing back image",
			mutate: func(t *testing.T, s registration.State) registration.State {
				s, err := registration.Apply(s, registration.SetGuestImage(0, constant.ImageSideBack, ""))
				require.NoError(t, err)

				return s
			},
			wantErr: registration.ErrIdentityIncomplete,
		},
		{
			name: "returning verified without resolved guest",
			mutate: func(t *testing.T, s registration.State) registration.State {
				s, err := registration.Apply(s, registration.SetVariant(0, registration.ReturningVerifiedGuest, ""))
				require.NoError(t, err)

				return s
			},
			wantErr: registration.ErrResolvedGuest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.mutate(t, base)

			err := registration.Validate(state)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_EmptyForm(t *testing.T) {
	assert.ErrorIs(t, registration.Validate(registration.State{}), registration.ErrNoGuests)
}
