// Package person holds the person entity: a researcher identity record.
package person

import "strings"

// Person is an identity record. The ID is server-assigned and immutable once
// created; 0 marks a record that has not been persisted yet.
type Person struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Institution string `json:"institution,omitempty"`
}

// Validate checks the fields a save requires.
func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if !looksLikeEmail(p.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}
