package domain

import "time"

// ReservationStatus is the coarse booking state shown to users.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
)

// UserReservation is a booking owned by the caller, enriched with derived
// display fields.
type UserReservation struct {
	ReferenceNumber    string            `json:"reference_number"`
	ResourceID         int               `json:"resource_id"`
	ResourceName       string            `json:"resource_name"`
	StartDateTime      time.Time         `json:"start_date_time"`
	EndDateTime        time.Time         `json:"end_date_time"`
	FormattedDate      string            `json:"formatted_date"`
	FormattedTimeRange string            `json:"formatted_time_range"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Status             ReservationStatus `json:"status"`
	IsPendingApproval  bool              `json:"is_pending_approval"`
	IsRecurring        bool              `json:"is_recurring"`
	CanModify          bool              `json:"can_modify"`
	CanCancel          bool              `json:"can_cancel"`
	Participants       []string          `json:"participants,omitempty"`
	Invitees           []string          `json:"invitees,omitempty"`
}
