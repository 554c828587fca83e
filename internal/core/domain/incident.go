package domain

// Incident is a help-request case owned by an NGO. Incidents are server-owned;
// the front-end only keeps read-only copies.
type Incident struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

// NewIncident is the payload of the create-incident call. Value is sent as
// typed by the user.
type NewIncident struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Value       string `json:"value"`
}
