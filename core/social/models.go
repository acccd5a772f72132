package social

import (
	"time"

	"github.com/trezcool/darasa/core"
)

type StatusUpdate struct {
	ID        int       `db:"id" json:"id"`
	AuthorID  int       `db:"author_id" json:"-"`
	Author    string    `db:"author" json:"author"` // username
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
}

// NewStatusUpdate contains information needed to post a StatusUpdate.
type NewStatusUpdate struct {
	Text string `json:"text" validate:"required,max=280"`
}

func (ns *NewStatusUpdate) Validate() error {
	ns.Text = core.CleanString(ns.Text)
	return core.Validate.Struct(ns)
}
