package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"` // admin, viewer
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RenameRecord is one completed rename, kept so a batch can be audited and
// searched later.
type RenameRecord struct {
	ID           int64     `json:"id"`
	OriginalPath string    `json:"original_path"`
	NewPath      string    `json:"new_path"`
	Reason       string    `json:"reason"`
	Tags         string    `json:"tags"`
	Moved        bool      `json:"moved"` // renamed in place vs copied to output
	CreatedAt    time.Time `json:"created_at"`
}
