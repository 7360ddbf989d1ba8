package upstream

// Session carries the credential pair required on every authenticated call.
// It is either the shared service-account session or a per-user session
// extracted from the caller's claims.
type Session struct {
	Token  string
	UserID string
}

// AuthRequest is the LibreBooking authentication payload.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by POST {base}/auth.
type AuthResponse struct {
	SessionToken    string `json:"sessionToken"`
	UserID          string `json:"userId"`
	SessionExpires  string `json:"sessionExpires"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// Reservation is the compact reservation shape used for schedule listings.
type Reservation struct {
	ReferenceNumber  string `json:"referenceNumber"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	ResourceName     string `json:"resourceName"`
	ResourceID       int    `json:"resourceId"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	RequiresApproval bool   `json:"requiresApproval"`
	IsRecurring      bool   `json:"isRecurring"`
}

// ReservationsEnvelope wraps the reservations listing response.
type ReservationsEnvelope struct {
	Reservations []Reservation `json:"reservations"`
}

// FullReservation is the detailed shape returned for a user's own bookings.
type FullReservation struct {
	ReferenceNumber  string   `json:"referenceNumber"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	ResourceName     string   `json:"resourceName"`
	ResourceID       int      `json:"resourceId"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Duration         string   `json:"duration"`
	RequiresApproval bool     `json:"requiresApproval"`
	IsRecurring      bool     `json:"isRecurring"`
	Participants     []string `json:"participants"`
	Invitees         []string `json:"invitees"`
}

// FullReservationsEnvelope wraps the detailed listing response.
type FullReservationsEnvelope struct {
	Reservations []FullReservation `json:"reservations"`
}

// ReservationQuery bounds a reservations listing. Start and End are local
// date-times without offset, as the upstream API expects.
type ReservationQuery struct {
	Start  string
	End    string
	UserID string
}

// CreateReservationRequest is the upstream booking payload. Start and end
// carry an explicit numeric UTC offset.
type CreateReservationRequest struct {
	ResourceID          int      `json:"resourceId"`
	StartDateTime       string   `json:"startDateTime"`
	EndDateTime         string   `json:"endDateTime"`
	Title               string   `json:"title"`
	UserID              int      `json:"userId"`
	Description         string   `json:"description,omitempty"`
	TermsAccepted       bool     `json:"termsAccepted"`
	Participants        []int    `json:"participants,omitempty"`
	Invitees            []int    `json:"invitees,omitempty"`
	ParticipatingGuests []string `json:"participatingGuests,omitempty"`
	InvitedGuests       []string `json:"invitedGuests,omitempty"`
	AllowParticipation  *bool    `json:"allowParticipation,omitempty"`
}

// ReservationAck acknowledges a create/update/delete call.
type ReservationAck struct {
	ReferenceNumber   string `json:"referenceNumber"`
	IsPendingApproval bool   `json:"isPendingApproval"`
	Message           string `json:"message"`
}

// Account is the upstream account representation.
type Account struct {
	UserID       int    `json:"userId"`
	UserName     string `json:"userName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Language     string `json:"language"`
	Timezone     string `json:"timezone"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Position     string `json:"position"`
}

// CreateAccountRequest creates a new upstream account.
type CreateAccountRequest struct {
	FirstName            string   `json:"firstName"`
	LastName             string   `json:"lastName"`
	EmailAddress         string   `json:"emailAddress"`
	UserName             string   `json:"userName"`
	Language             string   `json:"language"`
	Timezone             string   `json:"timezone"`
	Phone                string   `json:"phone,omitempty"`
	Organization         string   `json:"organization,omitempty"`
	Position             string   `json:"position,omitempty"`
	CustomAttributes     []string `json:"customAttributes"`
	Password             string   `json:"password"`
	AcceptTermsOfService bool     `json:"acceptTermsOfService"`
}

// UpdateAccountRequest updates an existing upstream account.
type UpdateAccountRequest struct {
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	EmailAddress     string   `json:"emailAddress"`
	UserName         string   `json:"userName"`
	Language         string   `json:"language"`
	Timezone         string   `json:"timezone"`
	Phone            string   `json:"phone,omitempty"`
	Organization     string   `json:"organization,omitempty"`
	Position         string   `json:"position,omitempty"`
	CustomAttributes []string `json:"customAttributes"`
}

// UpdatePasswordRequest changes an account password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AccountAck acknowledges account create/update calls.
type AccountAck struct {
	UserID  int    `json:"userId"`
	Message string `json:"message"`
}
