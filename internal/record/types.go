package record

import "time"

// Meta is embedded by every persisted domain record. The store owns these
// fields: callers never set them.
type Meta struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordMeta gives the store access to the embedded metadata.
func (m *Meta) RecordMeta() *Meta { return m }

// Record is implemented by any struct embedding Meta.
type Record interface {
	RecordMeta() *Meta
}
