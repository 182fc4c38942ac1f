package colorapi

import (
	"encoding/json"
	"strings"
)

// Color mirrors a record returned by /colors.
type Color struct {
	ID       string `json:"_id,omitempty"`
	Code     string `json:"color"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// UnmarshalJSON accepts both the document-store "_id" key and a plain "id".
func (c *Color) UnmarshalJSON(data []byte) error {
	var raw struct {
		MongoID  json.RawMessage `json:"_id"`
		ID       json.RawMessage `json:"id"`
		Code     string          `json:"color"`
		Name     string          `json:"name"`
		Category string          `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := rawID(raw.MongoID)
	if id == "" {
		id = rawID(raw.ID)
	}
	*c = Color{
		ID:       id,
		Code:     raw.Code,
		Name:     raw.Name,
		Category: raw.Category,
	}
	return nil
}

// Input converts the record into a request body, dropping its identity.
func (c Color) Input() ColorInput {
	return ColorInput{Code: c.Code, Name: c.Name, Category: c.Category}
}

// ColorInput is the body of POST /colors and PUT /colors/{id}.
type ColorInput struct {
	Code     string `json:"color"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// rawID renders string and numeric identifiers the same way.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
