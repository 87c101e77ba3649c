package supplier

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"kitchenbook/internal/validation"
)

// ErrInvalid is wrapped by every validation error in this package.
var ErrInvalid = errors.New("invalid supplier")

// DeliveryDays lists the accepted delivery day names.
var DeliveryDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Supplier represents an entry of the supplier directory.
type Supplier struct {
	ID               string    `json:"id"`
	Name             string    `json:"name" binding:"required"`
	ShortName        string    `json:"short_name"`
	Address          string    `json:"address"`
	Postcode         string    `json:"postcode"`
	AccountReference string    `json:"account_reference"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	TaxRefNumber     string    `json:"tax_ref_number"`
	FaxNumber        string    `json:"fax_number"`
	SalesRep         string    `json:"sales_rep"`
	SalesRepEmail    string    `json:"sales_rep_email"`
	SalesRepContact  string    `json:"sales_rep_contact"`
	EmailOrders      bool      `json:"email_orders"`
	MinOrderValue    float64   `json:"min_order_value" binding:"gte=0"`
	DeliveryDays     []string  `json:"delivery_days"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Store defines the interface for supplier data operations.
type Store interface {
	ListSuppliers(ctx context.Context, query string) ([]*Supplier, error)
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	CreateSupplier(ctx context.Context, s *Supplier) error
	UpdateSupplier(ctx context.Context, s *Supplier) error
	DeleteSupplier(ctx context.Context, id string) error
}

// Matches reports whether the supplier's name or short name contains query.
func (s *Supplier) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.ShortName), q)
}

// Normalize trims names and canonicalises delivery day spelling ("monday" -> "Mon").
func (s *Supplier) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.ShortName = strings.TrimSpace(s.ShortName)
	s.Email = strings.TrimSpace(s.Email)
	for i, d := range s.DeliveryDays {
		d = strings.TrimSpace(d)
		if len(d) >= 3 {
			d = strings.ToUpper(d[:1]) + strings.ToLower(d[1:3])
		}
		s.DeliveryDays[i] = d
	}
	if s.DeliveryDays == nil {
		s.DeliveryDays = []string{}
	}
}

// Validate checks the binding tags and the delivery day names.
func (s *Supplier) Validate() error {
	if err := validation.Struct(s, ErrInvalid); err != nil {
		return err
	}
	for _, d := range s.DeliveryDays {
		if !slices.Contains(DeliveryDays, d) {
			return fmt.Errorf("%w: unknown delivery day %q", ErrInvalid, d)
		}
	}
	return nil
}
