package model

import (
	"fmt"
	"strconv"
	"time"
)

// ContractDraft is an unvalidated, extraction-derived candidate for a
// contract record. Field names match the canonical extraction keys.
// Immutable after construction: the normalizer builds one per extraction
// event and the review workflow consumes it.
type ContractDraft struct {
	ContractName        string `json:"contract_name,omitempty"`
	ContractNumber      string `json:"contract_number,omitempty"`
	ContractType        string `json:"contract_type,omitempty"`
	ContractSubType     string `json:"contract_sub_type,omitempty"`
	ContractNature      string `json:"contract_nature,omitempty"`
	EffectiveDate       string `json:"effective_date,omitempty"`
	ExpirationDate      string `json:"expiration_date,omitempty"`
	PremiumAmount       string `json:"premium_amount,omitempty"`
	CommissionRate      string `json:"commission_rate,omitempty"`
	RetentionAmount     string `json:"retention_amount,omitempty"`
	LimitAmount         string `json:"limit_amount,omitempty"`
	CoverageDescription string `json:"coverage_description,omitempty"`
	LineOfBusiness      string `json:"line_of_business,omitempty"`
	CoverageTerritory   string `json:"coverage_territory,omitempty"`
	TermsAndConditions  string `json:"terms_and_conditions,omitempty"`
	SpecialProvisions   string `json:"special_provisions,omitempty"`
	Currency            string `json:"currency,omitempty"`
}

// PartyDraft is an unvalidated candidate for a party record.
type PartyDraft struct {
	Name      string `json:"name"`
	PartyType string `json:"party_type"`
	IsActive  bool   `json:"is_active"`
}

// ReviewData is the payload consumed by the review/approval workflow:
// a contract draft plus the party drafts extracted alongside it.
type ReviewData struct {
	Contract         ContractDraft `json:"contract"`
	Parties          []PartyDraft  `json:"parties"`
	CreateNewParties bool          `json:"create_new_parties"`
}

// Validate checks the draft against the typed contract record's
// requirements and returns one error string per violation. An empty
// slice means the draft converts cleanly.
func (d *ContractDraft) Validate() []string {
	var errs []string
	if d.ContractNumber == "" {
		errs = append(errs, "contract_number is required")
	}
	if d.ContractName == "" {
		errs = append(errs, "contract_name is required")
	}
	for _, f := range []struct{ name, value string }{
		{"effective_date", d.EffectiveDate},
		{"expiration_date", d.ExpirationDate},
	} {
		if f.value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", f.name))
			continue
		}
		if _, err := time.Parse("2006-01-02", f.value); err != nil {
			errs = append(errs, fmt.Sprintf("%s %q is not a valid YYYY-MM-DD date", f.name, f.value))
		}
	}
	for _, f := range []struct{ name, value string }{
		{"premium_amount", d.PremiumAmount},
		{"commission_rate", d.CommissionRate},
		{"retention_amount", d.RetentionAmount},
		{"limit_amount", d.LimitAmount},
	} {
		if f.value == "" {
			continue
		}
		if _, err := strconv.ParseFloat(f.value, 64); err != nil {
			errs = append(errs, fmt.Sprintf("%s %q is not numeric", f.name, f.value))
		}
	}
	if d.Currency != "" && len(d.Currency) != 3 {
		errs = append(errs, fmt.Sprintf("currency %q is not a 3-letter ISO 4217 code", d.Currency))
	}
	return errs
}

// Validate checks the party draft and returns one error string per
// violation.
func (p *PartyDraft) Validate() []string {
	var errs []string
	if p.Name == "" {
		errs = append(errs, "party name is required")
	}
	switch p.PartyType {
	case PartyTypeCedant, PartyTypeReinsurer, PartyTypeBroker:
	case "":
		errs = append(errs, "party_type is required")
	default:
		errs = append(errs, fmt.Sprintf("party_type %q is not one of cedant, reinsurer, broker", p.PartyType))
	}
	return errs
}

// ToContract converts a validated draft into a contract record. Workflow
// fields (status, review metadata) are left for the caller to set.
func (d *ContractDraft) ToContract() *Contract {
	currency := d.Currency
	if currency == "" {
		currency = "USD"
	}
	return &Contract{
		ContractNumber:      d.ContractNumber,
		ContractName:        d.ContractName,
		ContractType:        d.ContractType,
		ContractSubType:     d.ContractSubType,
		ContractNature:      d.ContractNature,
		EffectiveDate:       d.EffectiveDate,
		ExpirationDate:      d.ExpirationDate,
		PremiumAmount:       d.PremiumAmount,
		CommissionRate:      d.CommissionRate,
		RetentionAmount:     d.RetentionAmount,
		LimitAmount:         d.LimitAmount,
		CoverageDescription: d.CoverageDescription,
		LineOfBusiness:      d.LineOfBusiness,
		CoverageTerritory:   d.CoverageTerritory,
		TermsAndConditions:  d.TermsAndConditions,
		SpecialProvisions:   d.SpecialProvisions,
		Currency:            currency,
		IsActive:            true,
	}
}

// ToParty converts a party draft into a party record.
func (p *PartyDraft) ToParty() *Party {
	return &Party{
		Name:      p.Name,
		PartyType: p.PartyType,
		IsActive:  p.IsActive,
	}
}

// StatusForDates derives the contract workflow status from its effective
// and expiration dates relative to today: expired when past, active when
// in force, pending review when the effective date is still ahead.
func StatusForDates(effective, expiration string, today time.Time) string {
	eff, err1 := time.Parse("2006-01-02", effective)
	exp, err2 := time.Parse("2006-01-02", expiration)
	if err1 != nil || err2 != nil {
		return ContractStatusPendingReview
	}
	// Build the boundary from today's calendar date in UTC, the zone the
	// date strings parse into. Truncating the absolute time instead would
	// shift the day boundary by the local zone offset.
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case exp.Before(day):
		return ContractStatusExpired
	case !eff.After(day):
		return ContractStatusActive
	default:
		return ContractStatusPendingReview
	}
}
