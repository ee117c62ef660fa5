package booking

import (
	"testing"

	"github.com/gatherly/gatherly/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	t.Run("should accept practical addresses", func(t *testing.T) {
		valid := []string{
			"user@example.com",
			"user.name@example.com",
			"user.name+tag@sub.example.com",
			"user+tag@example.co.uk",
			"user_name@example.org",
			"user123@example.io",
			"first.last@subdomain.example.com",
			"o'brien@example.com",
			"user@localhost",
		}
		for _, email := range valid {
			assert.True(t, ValidEmail(email), "expected %q to be valid", email)
		}
	})

	t.Run("should reject malformed addresses", func(t *testing.T) {
		invalid := []string{
			"user@@example.com",
			"userexample.com",
			"user@",
			"@example.com",
			"user@example..com",
			"user@example.com.",
			"user@-example.com",
			"user@example-.com",
			"user name@example.com",
			"",
		}
		for _, email := range invalid {
			assert.False(t, ValidEmail(email), "expected %q to be invalid", email)
		}
	})
}

func TestBooking_Validate(t *testing.T) {
	t.Run("should accept a valid booking", func(t *testing.T) {
		b := Booking{EventID: uuid.New(), Email: "user@example.com"}
		assert.NoError(t, b.Validate())
	})

	t.Run("should lowercase and trim the email", func(t *testing.T) {
		b := Booking{EventID: uuid.New(), Email: "  USER@EXAMPLE.COM  "}

		require.NoError(t, b.Validate())

		assert.Equal(t, "user@example.com", b.Email)
	})

	t.Run("should collect both missing fields together", func(t *testing.T) {
		b := Booking{}
		err := b.Validate()

		require.Error(t, err)
		var errs *validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "Event ID is required", errs.Fields()["eventId"])
		assert.Equal(t, "Email is required", errs.Fields()["email"])
	})

	t.Run("should reject a malformed email", func(t *testing.T) {
		b := Booking{EventID: uuid.New(), Email: "user@@example.com"}
		err := b.Validate()

		require.Error(t, err)
		var errs *validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "Please provide a valid email address", errs.Fields()["email"])
	})
}
