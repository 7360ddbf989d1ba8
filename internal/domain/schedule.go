package domain

// TrainingSlot is a display-oriented schedule row for the weekly view.
type TrainingSlot struct {
	Group           string `json:"group"`
	Day             string `json:"day"`
	Time            string `json:"time"`
	ResourceName    string `json:"resource_name"`
	ResourceID      int    `json:"resource_id"`
	ReferenceNumber string `json:"reference_number"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	IsRecurring     bool   `json:"is_recurring"`
}
