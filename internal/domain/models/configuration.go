package models

import (
	"encoding/json"
	"time"
)

// Configuration is a generic section/key setting. Values are opaque JSON
// and not bound-checked; the audit trail is the only safety net.
type Configuration struct {
	Section        string          `json:"section"`
	Key            string          `json:"key"`
	Value          json.RawMessage `json:"value"`
	LastModified   time.Time       `json:"last_modified"`
	LastModifiedBy string          `json:"last_modified_by"`
}

// EntityID is the composite identity used in audit entries.
func (c *Configuration) EntityID() string {
	return c.Section + "/" + c.Key
}
