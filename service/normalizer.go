package service

import (
	"log/slog"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vineetsarpal/re-ink/model"
)

// The extraction vendor does not guarantee a payload shape: responses have
// shipped with fields at the top level, nested under "data"/"extraction",
// or itemized inside "fields" arrays. Flatten collapses any of these into
// a canonical field map, and the Map* functions resolve canonical names
// through alias lists. Misses are logged and omitted, never guessed.

// ParsedExtraction is the normalized output of one extraction run,
// consumed by the review/approval workflow and the intake agent.
type ParsedExtraction struct {
	ContractData       model.ContractDraft `json:"contract_data"`
	PartiesData        []model.PartyDraft  `json:"parties_data"`
	ConfidenceScore    *float64            `json:"confidence_score,omitempty"`
	ExtractionMetadata map[string]any      `json:"extraction_metadata,omitempty"`
}

// ParseExtraction flattens a raw vendor payload and maps it onto contract
// and party drafts.
func ParseExtraction(raw map[string]any, metadata map[string]any) *ParsedExtraction {
	fields := Flatten(raw)

	parsed := &ParsedExtraction{
		ContractData:       MapContract(fields),
		PartiesData:        MapParties(fields),
		ExtractionMetadata: metadata,
	}

	if c, ok := raw["confidence"].(float64); ok {
		parsed.ConfidenceScore = &c
	}

	return parsed
}

// Flatten produces a canonical field map from an arbitrarily nested vendor
// payload via depth-first traversal. First-seen value for a key wins, and
// every object/array node is visited at most once so shared or cyclic
// references cannot loop.
func Flatten(payload any) map[string]any {
	fields := make(map[string]any)
	seen := make(map[uintptr]bool)
	flattenNode(payload, fields, seen)
	return fields
}

func flattenNode(node any, fields map[string]any, seen map[uintptr]bool) {
	if id, ok := nodeIdentity(node); ok {
		if seen[id] {
			return
		}
		seen[id] = true
	}

	switch n := node.(type) {
	case map[string]any:
		for key, value := range n {
			// Vendor metadata, not field values.
			if key == "confidence" || key == "confidence_score" {
				continue
			}
			if key == "fields" {
				if entries, ok := value.([]any); ok {
					for _, entry := range entries {
						recordFieldEntry(entry, fields)
						flattenNode(entry, fields, seen)
					}
					continue
				}
			}
			if v := Unwrap(value); v != nil {
				if _, exists := fields[key]; !exists {
					fields[key] = v
				}
			}
			flattenNode(value, fields, seen)
		}
	case []any:
		for _, item := range n {
			flattenNode(item, fields, seen)
		}
	}
}

// recordFieldEntry treats one element of a "fields" list as a field
// record: name from the first present naming key, value from the first
// present value key (or the whole entry).
func recordFieldEntry(entry any, fields map[string]any) {
	record, ok := entry.(map[string]any)
	if !ok {
		return
	}

	var name string
	for _, key := range []string{"name", "field_name", "key", "label"} {
		if s, ok := record[key].(string); ok && s != "" {
			name = s
			break
		}
	}
	if name == "" {
		return
	}

	var raw any = record
	for _, key := range []string{"value", "text", "content", "raw"} {
		if v, ok := record[key]; ok {
			raw = v
			break
		}
	}

	if v := Unwrap(raw); v != nil {
		if _, exists := fields[name]; !exists {
			fields[name] = v
		}
	}
}

// nodeIdentity returns a stable identity for container nodes. Scalars
// have no identity and are always visited.
func nodeIdentity(node any) (uintptr, bool) {
	switch node.(type) {
	case map[string]any, []any:
		return reflect.ValueOf(node).Pointer(), true
	}
	return 0, false
}

// Unwrap reduces a vendor value to a scalar, or nil when no scalar can be
// found. Strings are trimmed and empty-is-nil; objects are probed through
// priority keys, then a "values" list, then a lone key; lists yield their
// first non-nil entry.
func Unwrap(value any) any {
	return unwrapGuarded(value, make(map[uintptr]bool))
}

func unwrapGuarded(value any, seen map[uintptr]bool) any {
	if id, ok := nodeIdentity(value); ok {
		if seen[id] {
			return nil
		}
		seen[id] = true
	}

	switch v := value.(type) {
	case nil:
		return nil
	case float64, int, int64, bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		return trimmed
	case map[string]any:
		for _, key := range []string{"value", "text", "content", "answer", "raw", "body"} {
			if inner, ok := v[key]; ok {
				if u := unwrapGuarded(inner, seen); u != nil {
					return u
				}
			}
		}
		if values, ok := v["values"].([]any); ok {
			for _, item := range values {
				if u := unwrapGuarded(item, seen); u != nil {
					return u
				}
			}
		}
		if len(v) == 1 {
			for _, only := range v {
				return unwrapGuarded(only, seen)
			}
		}
		return nil
	case []any:
		for _, item := range v {
			if u := unwrapGuarded(item, seen); u != nil {
				return u
			}
		}
		return nil
	}
	return nil
}

// Lookup resolves a canonical field name through its alias list: exact
// matches first (name, then each alias), then a case-insensitive retry.
// Empty strings and empty lists never match.
func Lookup(fields map[string]any, name string, aliases ...string) any {
	keys := append([]string{name}, aliases...)

	for _, key := range keys {
		if v, ok := fields[key]; ok && !emptyValue(v) {
			return v
		}
	}
	for _, key := range keys {
		for fieldKey, v := range fields {
			if strings.EqualFold(fieldKey, key) && !emptyValue(v) {
				return v
			}
		}
	}
	return nil
}

func emptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	return false
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// typeNatureSeparators are tried in order; the first one present splits
// contract_type into type and nature.
var typeNatureSeparators = []string{" - ", " – ", " — ", ":"}

// MapContract builds a contract draft from a canonical field map using the
// documented alias table.
func MapContract(fields map[string]any) model.ContractDraft {
	var draft model.ContractDraft

	draft.ContractName = stringField(Lookup(fields, "contract_name", "contractName", "agreement_name", "agreementName"))
	draft.ContractNumber = stringField(Lookup(fields, "contract_number", "contractNumber", "agreement_number", "reference_number"))
	if draft.ContractNumber == "" && draft.ContractName != "" {
		draft.ContractNumber = deriveContractNumber(draft.ContractName)
	}

	draft.ContractType = stringField(Lookup(fields, "contract_type", "contractType", "type_of_contract"))
	draft.ContractSubType = stringField(Lookup(fields, "contract_sub_type", "contractSubType", "sub_type"))
	draft.ContractNature = stringField(Lookup(fields, "contract_nature", "contractNature", "nature_of_contract"))
	if draft.ContractNature == "" && draft.ContractType != "" {
		for _, sep := range typeNatureSeparators {
			if idx := strings.Index(draft.ContractType, sep); idx >= 0 {
				draft.ContractNature = strings.TrimSpace(draft.ContractType[idx+len(sep):])
				draft.ContractType = strings.TrimSpace(draft.ContractType[:idx])
				break
			}
		}
	}

	if v := stringField(Lookup(fields, "effective_date", "effectiveDate", "inception_date", "start_date")); v != "" {
		draft.EffectiveDate = NormalizeDate(v)
	}
	if v := stringField(Lookup(fields, "expiration_date", "expirationDate", "expiry_date", "end_date")); v != "" {
		draft.ExpirationDate = NormalizeDate(v)
	}

	if v := Lookup(fields, "premium_amount", "premiumAmount", "premium"); v != nil {
		draft.PremiumAmount = CleanNumeric(v)
	}
	if v := Lookup(fields, "commission_rate", "commissionRate", "commission"); v != nil {
		draft.CommissionRate = CleanNumeric(v)
	}
	if v := Lookup(fields, "deductible_amount", "retention_amount", "retention", "deductible"); v != nil {
		draft.RetentionAmount = CleanNumeric(v)
	}
	if v := Lookup(fields, "limit_covered", "limit_amount", "limitAmount"); v != nil {
		draft.LimitAmount = CleanNumeric(v)
	}
	// upper_limit only fills limit_amount when limit_covered did not.
	if draft.LimitAmount == "" {
		if v := Lookup(fields, "upper_limit", "upperLimit"); v != nil {
			draft.LimitAmount = CleanNumeric(v)
		}
	}

	draft.CoverageDescription = stringField(Lookup(fields, "coverage_description", "attachment_criteria", "coverageDescription"))
	draft.LineOfBusiness = stringField(Lookup(fields, "line_of_business", "lineOfBusiness"))
	draft.CoverageTerritory = stringField(Lookup(fields, "coverage_territory", "coverageTerritory", "territory"))
	draft.TermsAndConditions = stringField(Lookup(fields, "terms_and_conditions", "termsAndConditions"))
	draft.SpecialProvisions = stringField(Lookup(fields, "special_provisions", "specialProvisions"))

	currency := strings.ToUpper(stringField(Lookup(fields, "currency", "currency_code", "currencyCode")))
	if len(currency) == 3 {
		draft.Currency = currency
	} else {
		draft.Currency = "USD"
	}

	return draft
}

// MapParties extracts cedant and reinsurer party drafts. Cedant is always
// first when present.
func MapParties(fields map[string]any) []model.PartyDraft {
	var parties []model.PartyDraft

	if name := stringField(Lookup(fields, "cedant_name", "cedent_name", "cedantName", "cedentName")); name != "" {
		parties = append(parties, model.PartyDraft{
			Name:      name,
			PartyType: model.PartyTypeCedant,
			IsActive:  true,
		})
	}
	if name := stringField(Lookup(fields, "reinsurer_name", "reinsurerName", "reinsurer", "retrocessionaire_name")); name != "" {
		parties = append(parties, model.PartyDraft{
			Name:      name,
			PartyType: model.PartyTypeReinsurer,
			IsActive:  true,
		})
	}

	return parties
}

// deriveContractNumber synthesizes a contract number from the contract
// name: non-alphanumeric characters become "-", capped at 50 characters.
func deriveContractNumber(name string) string {
	number := nonAlphanumeric.ReplaceAllString(name, "-")
	if len(number) > 50 {
		number = number[:50]
	}
	return number
}

// CleanNumeric strips currency symbols, commas, spaces, and percent signs
// from a numeric-looking value, validating the result by parse. Returns
// "" (with a logged warning) when the value is not numeric; unparseable
// values are omitted from drafts, never fatal.
func CleanNumeric(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		cleaned := v
		for _, symbol := range []string{"$", "€", "£", ",", " ", "%"} {
			cleaned = strings.ReplaceAll(cleaned, symbol, "")
		}
		cleaned = strings.TrimSpace(cleaned)
		if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
			slog.Warn("could not clean numeric value", "value", v)
			return ""
		}
		return cleaned
	}
	return ""
}

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"01-02-2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// NormalizeDate reformats a date string to YYYY-MM-DD, trying the common
// vendor formats in order. Unparseable input is returned unchanged with a
// logged warning: a lossy best-effort policy, not a failure.
func NormalizeDate(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}

	slog.Warn("could not normalize date format", "value", value)
	return value
}

func stringField(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
