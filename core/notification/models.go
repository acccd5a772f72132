package notification

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Type enumerates the notification kinds the fan-out engine produces.
type Type string

const (
	TypeEnrolment   Type = "enrolment"    // a student enrolled; sent to the course's teacher
	TypeNewMaterial Type = "new_material" // new material published; sent to active students
	TypeRemoved     Type = "removed"      // student removed from a course; sent to the student
)

// Payload holds type-specific notification data; write-once.
type Payload map[string]interface{}

func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling payload")
	}
	return string(data), nil
}

func (p *Payload) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*p = Payload{}
		return nil
	default:
		return errors.Errorf("unsupported payload type %T", src)
	}
	return errors.Wrap(json.Unmarshal(data, p), "unmarshaling payload")
}

type Notification struct {
	ID          int       `db:"id" json:"id"`
	RecipientID int       `db:"recipient_id" json:"recipient_id"`
	Type        Type      `db:"type" json:"type"`
	Payload     Payload   `db:"payload" json:"payload"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"` // UTC; set once at creation
}
