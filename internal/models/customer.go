package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)
	nonDigitPattern = regexp.MustCompile(`[^0-9]`)
)

// NewID returns a fresh opaque entity id.
func NewID() string {
	return uuid.New().String()
}

// Customer holds contact details and the ordered list of accounts it owns.
// Ownership flows one way: an Account carries only a CustomerID
// back-reference, never a pointer back to its owner.
type Customer struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Accounts []*Account
}

// NewCustomer validates every field and returns ErrInvalidArgument on the
// first violation. The id is generated once and never changes.
func NewCustomer(name, email, phone string) (*Customer, error) {
	c := &Customer{ID: NewID()}
	if err := c.SetName(name); err != nil {
		return nil, err
	}
	if err := c.SetEmail(email); err != nil {
		return nil, err
	}
	if err := c.SetPhone(phone); err != nil {
		return nil, err
	}
	return c, nil
}

// SetName rejects empty names, leaving the customer unchanged.
func (c *Customer) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidArgument)
	}
	c.Name = name
	return nil
}

// SetEmail requires a standard address shape, leaving the customer
// unchanged on violation.
func (c *Customer) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email cannot be empty", ErrInvalidArgument)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email format %q", ErrInvalidArgument, email)
	}
	c.Email = email
	return nil
}

// SetPhone accepts any formatting, but the value must normalize to exactly
// ten digits.
func (c *Customer) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("%w: phone cannot be empty", ErrInvalidArgument)
	}
	if len(nonDigitPattern.ReplaceAllString(phone, "")) != 10 {
		return fmt.Errorf("%w: phone must be exactly 10 digits", ErrInvalidArgument)
	}
	c.Phone = phone
	return nil
}

// HasAccounts reports whether the customer still owns any account.
func (c *Customer) HasAccounts() bool {
	return len(c.Accounts) > 0
}

// AddAccount appends to the owned list; insertion order is creation order.
func (c *Customer) AddAccount(a *Account) {
	c.Accounts = append(c.Accounts, a)
}

// RemoveAccount drops the account with the given id from the owned list and
// reports whether it was present.
func (c *Customer) RemoveAccount(accountID string) bool {
	for i, a := range c.Accounts {
		if a.ID == accountID {
			c.Accounts = append(c.Accounts[:i], c.Accounts[i+1:]...)
			return true
		}
	}
	return false
}
