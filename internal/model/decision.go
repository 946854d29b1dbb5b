package model

import (
	"encoding/json"
	"time"
)

// SavedDecision is an archived action report together with the context it
// was generated for.
type SavedDecision struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Context       UserContext     `json:"context"`
	InnovationIDs []string        `json:"innovation_ids"`
	Report        json.RawMessage `json:"report"`
	CreatedAt     time.Time       `json:"created_at"`
}
