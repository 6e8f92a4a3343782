package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidClientName = errors.New("client name is required")
	ErrInvalidIDNumber   = errors.New("client identification number is required")
)

// ClientProfile is the buyer record stored by registerClient.
type ClientProfile struct {
	Name     string
	IDNumber string
	Email    string
	Phone    string
	Streets  string
}

// Registered reports whether the contract holds a profile; an unregistered
// wallet reads back with an empty identification number.
func (p ClientProfile) Registered() bool {
	return strings.TrimSpace(p.IDNumber) != ""
}

func (p ClientProfile) Normalize() ClientProfile {
	p.Name = strings.TrimSpace(p.Name)
	p.IDNumber = strings.TrimSpace(p.IDNumber)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Streets = strings.TrimSpace(p.Streets)
	return p
}

func (p ClientProfile) Validate() error {
	if p.Name == "" {
		return ErrInvalidClientName
	}
	if p.IDNumber == "" {
		return ErrInvalidIDNumber
	}
	return nil
}
