package requests

import (
	"errors"
	"strings"
	"unicode"

	"github.com/soat-quoter/app/models"
	"github.com/soat-quoter/internal/quoting"
)

// Validation errors, joined when several fields fail.
var (
	ErrMissingName     = errors.New("customer name is required")
	ErrInvalidDocument = errors.New("document id must be digits only")
	ErrMissingVehicle  = errors.New("brand and model are required")
	ErrInvalidPlate    = errors.New("plate must be exactly 6 alphanumeric characters")
	ErrInvalidPhone    = errors.New("phone must have at least 9 digits")
	ErrInvalidEmail    = errors.New("email is not valid")
)

// CustomerInput is the customer block of a quote request.
type CustomerInput struct {
	Name       string `json:"name"`
	DocumentID string `json:"document_id"` // DNI or RUC
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Plate      string `json:"plate"`
}

// QuoteRequest asks for a SOAT quote.
type QuoteRequest struct {
	Region   string        `json:"region" binding:"required"`
	Usage    string        `json:"usage" binding:"required"`
	Class    string        `json:"class" binding:"required"`
	Seats    int           `json:"seats" binding:"min=0,max=100"`
	Brand    string        `json:"brand"`
	Model    string        `json:"model"`
	Customer CustomerInput `json:"customer"`
}

// Validate checks the customer form. Brokers may leave phone and email
// empty.
func (r *QuoteRequest) Validate(broker bool) error {
	var errs []error
	c := r.Customer
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, ErrMissingName)
	}
	if !allDigits(c.DocumentID) {
		errs = append(errs, ErrInvalidDocument)
	}
	if strings.TrimSpace(r.Brand) == "" || strings.TrimSpace(r.Model) == "" {
		errs = append(errs, ErrMissingVehicle)
	}
	if plate := strings.TrimSpace(c.Plate); len(plate) != 6 || !alphanumeric(plate) {
		errs = append(errs, ErrInvalidPlate)
	}
	if !broker {
		if !allDigits(c.Phone) || len(c.Phone) < 9 {
			errs = append(errs, ErrInvalidPhone)
		}
		if !strings.Contains(c.Email, "@") {
			errs = append(errs, ErrInvalidEmail)
		}
	}
	return errors.Join(errs...)
}

// EngineRequest is the vehicle part of the request.
func (r *QuoteRequest) EngineRequest() quoting.Request {
	return quoting.Request{
		Region: r.Region,
		Usage:  r.Usage,
		Class:  r.Class,
		Seats:  r.Seats,
		Brand:  r.Brand,
		Model:  r.Model,
	}
}

// CustomerModel returns the customer as stored; the plate is upper-cased.
func (r *QuoteRequest) CustomerModel() models.Customer {
	c := r.Customer
	return models.Customer{
		Name:       strings.TrimSpace(c.Name),
		DocumentID: strings.TrimSpace(c.DocumentID),
		Phone:      strings.TrimSpace(c.Phone),
		Email:      strings.TrimSpace(c.Email),
		Plate:      strings.ToUpper(strings.TrimSpace(c.Plate)),
	}
}

func (r *QuoteRequest) VehicleModel() models.Vehicle {
	return models.Vehicle{
		Region: r.Region,
		Usage:  r.Usage,
		Class:  r.Class,
		Seats:  r.Seats,
		Brand:  r.Brand,
		Model:  r.Model,
	}
}

func allDigits(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func alphanumeric(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
