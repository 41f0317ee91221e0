package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is wrapped by every field validation failure.
var ErrValidation = errors.New("validation failed")

// Validate checks the user's required fields. today is the current calendar
// date; birthdates after it are rejected.
func (u User) Validate(today Date) error {
	var errs []error
	if strings.TrimSpace(u.FirstName) == "" {
		errs = append(errs, invalid("first name is required"))
	}
	if strings.TrimSpace(u.LastName) == "" {
		errs = append(errs, invalid("last name is required"))
	}
	if strings.TrimSpace(u.Email) == "" {
		errs = append(errs, invalid("email is required"))
	}
	switch {
	case u.Birthdate.IsZero():
		errs = append(errs, invalid("birthdate is required"))
	case u.Birthdate.After(today):
		errs = append(errs, invalid("birthdate must not be in the future"))
	}
	return errors.Join(errs...)
}

// Validate checks the training's required fields and numeric ranges.
func (t Training) Validate() error {
	var errs []error
	if t.StartTime.IsZero() {
		errs = append(errs, invalid("start time is required"))
	}
	if t.EndTime.IsZero() {
		errs = append(errs, invalid("end time is required"))
	}
	if !t.StartTime.IsZero() && !t.EndTime.IsZero() && t.EndTime.Before(t.StartTime) {
		errs = append(errs, invalid("end time must not be before start time"))
	}
	if !t.ActivityType.Valid() {
		errs = append(errs, invalid("activity type is required"))
	}
	if t.Distance < 0 {
		errs = append(errs, invalid("distance must not be negative"))
	}
	if t.AverageSpeed < 0 {
		errs = append(errs, invalid("average speed must not be negative"))
	}
	return errors.Join(errs...)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
