package cohort

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// An Entity is a record describing one individual. Entities are loaded once
// and are never changed by the engine.
type Entity struct {
	EID       int    `json:"eid" yaml:"eid"`
	FirstName string `json:"first_name" yaml:"first_name" validate:"utf8"`
	LastName  string `json:"last_name" yaml:"last_name" validate:"utf8"`
	Age       int    `json:"age" yaml:"age" validate:"gte=0"`
	Country   string `json:"country" yaml:"country" validate:"utf8"`

	// ZipCode is kept as a string to preserve leading zeros and formatting.
	ZipCode string `json:"zip_code" yaml:"zip_code" validate:"utf8"`

	// Emails in the order they were supplied; may be empty.
	Emails []string `json:"emails" yaml:"emails" validate:"dive,required,contains=@,utf8"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks that the entity can be evaluated by every predicate kind.
// Strings must be valid UTF-8, and email addresses must contain an @.
// Sources call Validate on each entity they produce.
func (e *Entity) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		if err := validate.RegisterValidation("utf8", validUTF8); err != nil {
			panic(err)
		}
	})
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: eid %d: %v", ErrMalformedEntity, e.EID, err)
	}
	return nil
}

func validUTF8(fl validator.FieldLevel) bool {
	return utf8.ValidString(fl.Field().String())
}

// Text returns the value of a string field. The boolean is false if the
// field is not one of the entity's string fields.
func (e *Entity) Text(field string) (string, bool) {
	switch field {
	case FirstName:
		return e.FirstName, true
	case LastName:
		return e.LastName, true
	case Country:
		return e.Country, true
	case ZipCode:
		return e.ZipCode, true
	}
	return "", false
}

// Data returns the entity as a map keyed by field name, with the field types
// listed in the Fields registry.
func (e *Entity) Data() map[string]any {
	emails := e.Emails
	if emails == nil {
		emails = []string{}
	}
	return map[string]any{
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Age:       e.Age,
		Country:   e.Country,
		ZipCode:   e.ZipCode,
		Emails:    emails,
	}
}

// EmailDomain returns the part of the address after the first @. The address
// must be valid UTF-8.
func EmailDomain(email string) (string, error) {
	if !utf8.ValidString(email) {
		return "", fmt.Errorf("%w: email %q is not valid UTF-8", ErrMalformedEntity, email)
	}
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "", fmt.Errorf("%w: email %q has no @", ErrMalformedEntity, email)
	}
	return domain, nil
}
