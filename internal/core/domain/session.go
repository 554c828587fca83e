package domain

import (
	"encoding/json"
	"fmt"
)

// StorageKey is the single durable storage key holding the serialized session.
const StorageKey = "bethehero"

// Session is the authenticated identity of the current NGO. The zero value is
// the empty session of a browser that has not logged in.
type Session struct {
	ID    ID
	Name  string
	Token string

	// rawID is the id token as the API emitted it, so a numeric id is stored
	// back as a number.
	rawID string
}

type sessionJSON struct {
	ID    json.RawMessage `json:"id"`
	Name  string          `json:"name"`
	Token string          `json:"token"`
}

// IsAuthenticated reports whether the session carries a bearer token.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// MarshalJSON writes the id in the form it was received. Sessions built in
// code, or whose id was changed since decoding, write the id as a string.
func (s Session) MarshalJSON() ([]byte, error) {
	id, err := encodeID(s.ID, s.rawID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sessionJSON{ID: id, Name: s.Name, Token: s.Token})
}

// UnmarshalJSON reads a stored session and remembers the id token.
func (s *Session) UnmarshalJSON(data []byte) error {
	var in sessionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	id, raw, err := decodeID(in.ID)
	if err != nil {
		return err
	}
	*s = Session{ID: id, Name: in.Name, Token: in.Token, rawID: raw}
	return nil
}

func decodeID(raw json.RawMessage) (ID, string, error) {
	var id ID
	if len(raw) == 0 {
		return id, "", nil
	}
	if err := id.UnmarshalJSON(raw); err != nil {
		return "", "", err
	}
	if id.IsZero() {
		return id, "", nil
	}
	return id, string(raw), nil
}

func encodeID(id ID, raw string) (json.RawMessage, error) {
	if raw != "" {
		var decoded ID
		if err := decoded.UnmarshalJSON([]byte(raw)); err == nil && decoded == id {
			return json.RawMessage(raw), nil
		}
	}
	data, err := json.Marshal(string(id))
	if err != nil {
		return nil, fmt.Errorf("encode id: %w", err)
	}
	return data, nil
}
