package booking_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alpenride/booking-api/internal/booking"
)

func confirmableState() booking.State {
	s := booking.NewState()
	s.Customer = booking.Customer{
		FirstName: "Mira",
		LastName:  "Egger",
		Email:     "mira@example.com",
		Phone:     "+43 660 1234567",
	}
	s.Terms = true
	s.Basket = map[string]int{"city-m-salzburg": 1}
	return s
}

func TestCanConfirmPasses(t *testing.T) {
	require.Empty(t, booking.CanConfirm(confirmableState()))
}

func TestCanConfirmRequiresNames(t *testing.T) {
	s := confirmableState()
	s.Customer.FirstName = "   "
	s.Customer.LastName = ""
	problems := booking.CanConfirm(s)
	require.Contains(t, problems, "firstName")
	require.Contains(t, problems, "lastName")
}

func TestCanConfirmValidatesEmail(t *testing.T) {
	for _, bad := range []string{"", "not-an-email", "a@", "@b.com", "a b@c.com"} {
		s := confirmableState()
		s.Customer.Email = bad
		require.Contains(t, booking.CanConfirm(s), "email", "email %q", bad)
	}
}

func TestCanConfirmValidatesPhone(t *testing.T) {
	for _, ok := range []string{"+43 660 1234567", "0043(660)123-45-67", "1234567"} {
		s := confirmableState()
		s.Customer.Phone = ok
		require.NotContains(t, booking.CanConfirm(s), "phone", "phone %q", ok)
	}
	for _, bad := range []string{"", "12345", "phone me", "++1234567x"} {
		s := confirmableState()
		s.Customer.Phone = bad
		require.Contains(t, booking.CanConfirm(s), "phone", "phone %q", bad)
	}
}

func TestCanConfirmRequiresTermsAndBasket(t *testing.T) {
	s := confirmableState()
	s.Terms = false
	require.Contains(t, booking.CanConfirm(s), "terms")

	s = confirmableState()
	s.Basket = map[string]int{}
	require.Contains(t, booking.CanConfirm(s), "basket")
}
