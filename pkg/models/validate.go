package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateTimeLayout is the storage format of Property.DateTime.
const DateTimeLayout = "2006-01-02 15:04"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid input")

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	passwordRe = regexp.MustCompile(`^[A-Za-z\d]{6,}$`)
	letterRe   = regexp.MustCompile(`[A-Za-z]`)
	digitRe    = regexp.MustCompile(`\d`)
	reporterRe = regexp.MustCompile(`^[a-zA-Z]{3,}$`)
)

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalid, field, reason)
}

// Validate checks p against the listing form rules and reports every
// failing field at once.
func (p *Property) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: property is nil", ErrInvalid)
	}

	var errs []error
	if strings.TrimSpace(p.PropertyType) == "" {
		errs = append(errs, invalid("propertyType", "is required"))
	}
	if p.Bedrooms <= 0 {
		errs = append(errs, invalid("bedrooms", "must be positive"))
	}
	if _, err := time.Parse(DateTimeLayout, p.DateTime); err != nil {
		errs = append(errs, invalid("dateTime", "must match YYYY-MM-DD HH:MM"))
	}
	if p.MonthlyRentPrice <= 0 {
		errs = append(errs, invalid("monthlyRentPrice", "must be positive"))
	}
	if !p.FurnitureTypes.Valid() {
		errs = append(errs, invalid("furnitureTypes", fmt.Sprintf("must be one of %v", FurnitureTypes)))
	}
	if !reporterRe.MatchString(p.ReporterName) {
		errs = append(errs, invalid("reporterName", "must be at least 3 letters"))
	}

	return errors.Join(errs...)
}

// ValidateCredentials checks a username/password pair before it reaches
// the store. Both fields are checked independently.
func ValidateCredentials(username, password string) error {
	var errs []error
	if !usernameRe.MatchString(username) {
		errs = append(errs, invalid("username", "must be alphanumeric"))
	}
	if !passwordRe.MatchString(password) || !letterRe.MatchString(password) || !digitRe.MatchString(password) {
		errs = append(errs, invalid("password", "must be at least 6 letters and digits with one of each"))
	}
	return errors.Join(errs...)
}
