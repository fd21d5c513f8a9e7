package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants
const (
	RoleCooperative = "cooperative"
	RoleTransporter = "transporter"
	RoleAdmin       = "admin"
)

// User represents a platform account: a cooperative, a transporter or an admin
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone       string         `gorm:"type:varchar(20)" json:"phone"`
	Password    string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Role        string         `gorm:"type:varchar(20);not null;index" json:"role"`
	MovaAccount string         `gorm:"type:varchar(50)" json:"mova_account"` // Mobile money destination for transporters
	District    string         `gorm:"type:varchar(100)" json:"district"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// BeforeCreate assigns the ID client-side so non-postgres databases work too
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ValidRole reports whether role is one of the three platform roles
func ValidRole(role string) bool {
	return role == RoleCooperative || role == RoleTransporter || role == RoleAdmin
}
