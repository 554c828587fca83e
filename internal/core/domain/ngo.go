package domain

import (
	"encoding/json"
	"fmt"
)

// NGO is the organisation returned by the session endpoint.
type NGO struct {
	ID   ID
	Name string

	rawID string
}

// UnmarshalJSON decodes the organisation and remembers the id token.
func (n *NGO) UnmarshalJSON(data []byte) error {
	var in struct {
		ID   json.RawMessage `json:"id"`
		Name string          `json:"name"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode ngo: %w", err)
	}
	id, raw, err := decodeID(in.ID)
	if err != nil {
		return err
	}
	*n = NGO{ID: id, Name: in.Name, rawID: raw}
	return nil
}

// Session opens a session for the organisation, keeping its id as received.
func (n NGO) Session(token string) Session {
	return Session{ID: n.ID, Name: n.Name, Token: token, rawID: n.rawID}
}

// NGORegistration is the payload of the register call. The state code is
// collected as "state" but the API expects it under "uf".
type NGORegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	City     string `json:"city"`
	UF       string `json:"uf"`
}
