package models

import "time"

// College is the tenant entity. Its code is the unit of data isolation:
// every tenant-owned row carries the college code.
type College struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Code         string    `db:"code" json:"code"`
	Address      string    `db:"address" json:"address,omitempty"`
	City         string    `db:"city" json:"city,omitempty"`
	State        string    `db:"state" json:"state,omitempty"`
	Pincode      string    `db:"pincode" json:"pincode,omitempty"`
	ContactEmail string    `db:"contact_email" json:"contact_email,omitempty"`
	ContactPhone string    `db:"contact_phone" json:"contact_phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
