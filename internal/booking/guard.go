package booking

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate   = validator.New()
	phoneRegex = regexp.MustCompile(`^[+]?[\d\s().-]{7,}$`)
)

// CanConfirm checks the checkout guard. The returned map is empty when the
// session may proceed to payment; otherwise it carries one reason per failing
// field. Validation never errors out, it only blocks progression.
func CanConfirm(s State) map[string]string {
	problems := map[string]string{}

	if strings.TrimSpace(s.Customer.FirstName) == "" {
		problems["firstName"] = "first name is required"
	}
	if strings.TrimSpace(s.Customer.LastName) == "" {
		problems["lastName"] = "last name is required"
	}
	if err := validate.Var(s.Customer.Email, "required,email"); err != nil {
		problems["email"] = "a valid email address is required"
	}
	if !phoneRegex.MatchString(strings.TrimSpace(s.Customer.Phone)) {
		problems["phone"] = "a phone number of at least 7 digits is required"
	}
	if !s.Terms {
		problems["terms"] = "the rental terms must be accepted"
	}
	if len(s.Basket) == 0 {
		problems["basket"] = "the basket is empty"
	}
	return problems
}
