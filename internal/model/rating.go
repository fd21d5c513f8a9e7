package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating score bounds
const (
	RatingMin = 1
	RatingMax = 5
)

// Rating is the post-completion review one party leaves for the other on a
// finished transport. At most one rating per (request, reviewer, reviewed)
// triple, enforced by a composite unique index.
type Rating struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransportRequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_request_reviewer_reviewed" json:"transport_request_id"`
	ReviewerID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_request_reviewer_reviewed" json:"reviewer_id"`
	Reviewer           *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	ReviewedID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_request_reviewer_reviewed;index" json:"reviewed_id"`
	Reviewed           *User     `gorm:"foreignKey:ReviewedID" json:"reviewed,omitempty"`
	Score              int       `gorm:"type:int;not null" json:"score"`
	Comment            string    `gorm:"type:text" json:"comment"`
	CreatedAt          time.Time `json:"created_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
