package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidRUC          = errors.New("company RUC is required")
	ErrInvalidCompanyName  = errors.New("company name is required")
	ErrCompanyNotFound     = errors.New("company not found")
	ErrCompanyWalletNeeded = errors.New("company wallet is required")
)

// Company is a seller registered on the marketplace contract, keyed by RUC.
type Company struct {
	RUC         string
	Name        string
	Wallet      Address
	Active      bool
	Streets     string
	Phone       string
	Description string
	Email       string
	LogoURL     string
	VIPUntil    time.Time
}

// VIPActive reports whether the fee waiver is still running at now.
func (c Company) VIPActive(now time.Time) bool {
	return !c.VIPUntil.IsZero() && now.Before(c.VIPUntil)
}

// CompanyRegistration is the back-office form for registerCompany.
type CompanyRegistration struct {
	RUC         string
	Name        string
	Wallet      Address
	Streets     string
	Phone       string
	Description string
	Email       string
	LogoURL     string
}

// Normalize trims every text field.
func (r CompanyRegistration) Normalize() CompanyRegistration {
	r.RUC = strings.TrimSpace(r.RUC)
	r.Name = strings.TrimSpace(r.Name)
	r.Streets = strings.TrimSpace(r.Streets)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Description = strings.TrimSpace(r.Description)
	r.Email = strings.TrimSpace(r.Email)
	r.LogoURL = strings.TrimSpace(r.LogoURL)
	return r
}

func (r CompanyRegistration) Validate() error {
	if r.RUC == "" {
		return ErrInvalidRUC
	}
	if r.Name == "" {
		return ErrInvalidCompanyName
	}
	if r.Wallet.IsZero() {
		return ErrCompanyWalletNeeded
	}
	return nil
}
