// Package validate holds the declarative field rules for incoming entities.
// Each entity has one rule table and one Check function producing a Result
// with field-specific messages.
package validate

import "regexp"

var (
	nameRe     = regexp.MustCompile(`^[a-zA-Z]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9+_.-]+@[a-zA-Z0-9.-]+$`)
	mobileRe   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	priceRe    = regexp.MustCompile(`^\d+(\.\d+)?$`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	specialRe  = regexp.MustCompile(`[@#$%^&+=]`)
	genderVals = map[string]bool{"Male": true, "Female": true, "Other": true}
)

// Rule validates a single named field.
type Rule struct {
	Field   string
	Check   func(string) bool
	Message string
}

// Result collects the first failing message per field, in rule order.
type Result struct {
	Errors []FieldError
}

// FieldError names the field that failed and the user-facing message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OK reports whether every rule passed.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// First returns the first failure message, or "" when everything passed.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

func apply(rules []Rule, get func(string) string) Result {
	var res Result
	for _, rule := range rules {
		if !rule.Check(get(rule.Field)) {
			res.Errors = append(res.Errors, FieldError{Field: rule.Field, Message: rule.Message})
		}
	}
	return res
}

func letters(max int) func(string) bool {
	return func(v string) bool {
		return v != "" && len(v) <= max && nameRe.MatchString(v)
	}
}

// password strength: at least 8 chars, one lower, one upper, one of @#$%^&+=.
func strongPassword(v string) bool {
	return len(v) >= 8 &&
		lowerRe.MatchString(v) &&
		upperRe.MatchString(v) &&
		specialRe.MatchString(v)
}

var userRules = []Rule{
	{"firstName", letters(25), "Please enter a valid first name"},
	{"lastName", letters(25), "Please enter a valid last name"},
	{"email", emailRe.MatchString, "Please enter a valid email"},
	{"password", strongPassword, "Please enter a valid password"},
	{"mobile", mobileRe.MatchString, "Please enter a valid mobile number"},
	{"gender", func(v string) bool { return genderVals[v] }, "Please enter a valid gender"},
}

var productRules = []Rule{
	{"name", letters(25), "Please enter a valid product name"},
	{"price", priceRe.MatchString, "Please enter a valid product price"},
	{"description", letters(50), "Please enter a valid product description"},
}

// UserFields is the subset of a registration request the user rules inspect.
type UserFields struct {
	FirstName, LastName, Email, Password, Mobile, Gender string
}

// User checks a registration payload against the user rule table.
func User(f UserFields) Result {
	return apply(userRules, func(field string) string {
		switch field {
		case "firstName":
			return f.FirstName
		case "lastName":
			return f.LastName
		case "email":
			return f.Email
		case "password":
			return f.Password
		case "mobile":
			return f.Mobile
		case "gender":
			return f.Gender
		}
		return ""
	})
}

// ProductFields is the subset of a product form the product rules inspect.
type ProductFields struct {
	Name, Price, Description string
}

// Product checks a product payload against the product rule table.
func Product(f ProductFields) Result {
	return apply(productRules, func(field string) string {
		switch field {
		case "name":
			return f.Name
		case "price":
			return f.Price
		case "description":
			return f.Description
		}
		return ""
	})
}
