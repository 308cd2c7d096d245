// File: internal/domain/chat.go
package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ParticipantSeparator joins the two sorted user ids of a chat.
const ParticipantSeparator = ","

// Chat represents a two-party conversation. Participants holds the canonical
// participant string and is unique across the table.
type Chat struct {
	ID           string `gorm:"primaryKey;size:36"`
	Participants string `gorm:"uniqueIndex;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanonicalParticipants sorts the two ids and joins them, so {a,b} and {b,a}
// produce the same key.
func CanonicalParticipants(userA, userB string) (string, error) {
	for _, id := range []string{userA, userB} {
		if strings.TrimSpace(id) == "" {
			return "", errors.New("participant id cannot be empty")
		}
		if strings.Contains(id, ParticipantSeparator) {
			return "", errors.New("participant id cannot contain " + ParticipantSeparator)
		}
	}
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, ParticipantSeparator), nil
}

// ParticipantList splits the canonical string back into the ordered pair.
func (c *Chat) ParticipantList() []string {
	return strings.Split(c.Participants, ParticipantSeparator)
}
