package models

import (
	"fmt"
	"time"
)

type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactResolved ContactStatus = "resolved"
)

func ParseContactStatus(s string) (ContactStatus, error) {
	switch ContactStatus(s) {
	case ContactNew, ContactRead, ContactResolved:
		return ContactStatus(s), nil
	}
	return "", fmt.Errorf("unknown contact status %q", s)
}

// ContactMessage is a public "get in touch" submission.
type ContactMessage struct {
	ContactID string        `json:"_id" bson:"contactid"`
	Name      string        `json:"name" bson:"name"`
	Email     string        `json:"email" bson:"email"`
	Role      string        `json:"role,omitempty" bson:"role,omitempty"`
	Subject   string        `json:"subject,omitempty" bson:"subject,omitempty"`
	Message   string        `json:"message" bson:"message"`
	Status    ContactStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
}
