package dto

import (
	"fmt"
	"time"

	"github.com/spec-kit/booking-gateway/internal/service"
)

// localDateTimeLayout is the offset-less shape the frontend sends; instants
// are interpreted in the configured display timezone.
const localDateTimeLayout = "2006-01-02T15:04:05"

// CreateReservationRequest payload for reservation create/update.
type CreateReservationRequest struct {
	ResourceID          int      `json:"resource_id"`
	StartDateTime       string   `json:"start_date_time"`
	EndDateTime         string   `json:"end_date_time"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Participants        []int    `json:"participants,omitempty"`
	Invitees            []int    `json:"invitees,omitempty"`
	ParticipatingGuests []string `json:"participating_guests,omitempty"`
	InvitedGuests       []string `json:"invited_guests,omitempty"`
	AllowParticipation  *bool    `json:"allow_participation,omitempty"`
	TermsAccepted       *bool    `json:"terms_accepted,omitempty"`
}

// ToInput parses the wire payload into a service input.
func (r CreateReservationRequest) ToInput(loc *time.Location) (service.ReservationInput, error) {
	start, err := time.ParseInLocation(localDateTimeLayout, r.StartDateTime, loc)
	if err != nil {
		return service.ReservationInput{}, fmt.Errorf("invalid start_date_time: %w", err)
	}
	end, err := time.ParseInLocation(localDateTimeLayout, r.EndDateTime, loc)
	if err != nil {
		return service.ReservationInput{}, fmt.Errorf("invalid end_date_time: %w", err)
	}
	return service.ReservationInput{
		ResourceID:          r.ResourceID,
		Start:               start,
		End:                 end,
		Title:               r.Title,
		Description:         r.Description,
		Participants:        r.Participants,
		Invitees:            r.Invitees,
		ParticipatingGuests: r.ParticipatingGuests,
		InvitedGuests:       r.InvitedGuests,
		AllowParticipation:  r.AllowParticipation,
		TermsAccepted:       r.TermsAccepted,
	}, nil
}
