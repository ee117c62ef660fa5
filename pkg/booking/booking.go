package booking

import (
	"regexp"
	"strings"
	"time"

	"github.com/gatherly/gatherly/internal/validation"
	"github.com/google/uuid"
)

type Booking struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// emailRe is a practical email grammar: the local part allows the standard
// unquoted special characters, domain labels are alphanumeric-edged with
// internal hyphens only, at most 63 characters each, no empty labels and no
// trailing dot.
var emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// Validate normalizes the email in place and checks every field constraint.
func (b *Booking) Validate() error {
	errs := validation.NewErrors()

	if b.EventID == uuid.Nil {
		errs.Add("eventId", "Event ID is required")
	}

	b.Email = NormalizeEmail(b.Email)
	switch {
	case b.Email == "":
		errs.Add("email", "Email is required")
	case !ValidEmail(b.Email):
		errs.Add("email", "Please provide a valid email address")
	}

	return errs.ErrOrNil()
}
