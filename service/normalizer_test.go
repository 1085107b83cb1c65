package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vineetsarpal/re-ink/model"
)

func TestFlattenNestedPayload(t *testing.T) {
	payload := map[string]any{
		"data": map[string]any{
			"extraction": map[string]any{
				"contract_name": "Pacific Quota Share 2024",
				"premium_amount": map[string]any{
					"value": "$1,000.00",
				},
			},
		},
	}

	fields := Flatten(payload)

	assert.Equal(t, "Pacific Quota Share 2024", fields["contract_name"])
	assert.Equal(t, "$1,000.00", fields["premium_amount"])
}

func TestFlattenSkipsConfidenceKeys(t *testing.T) {
	payload := map[string]any{
		"contract_name":    "Treaty A",
		"confidence":       0.92,
		"confidence_score": 0.88,
	}

	fields := Flatten(payload)

	assert.Equal(t, "Treaty A", fields["contract_name"])
	assert.NotContains(t, fields, "confidence")
	assert.NotContains(t, fields, "confidence_score")
}

func TestFlattenFieldsList(t *testing.T) {
	payload := map[string]any{
		"fields": []any{
			map[string]any{"name": "contract_number", "value": "QS-2024-001"},
			map[string]any{"field_name": "currency", "text": "eur"},
			map[string]any{"label": "premium_amount", "content": "$2,500,000"},
			map[string]any{"value": "orphan without a name"},
		},
	}

	fields := Flatten(payload)

	assert.Equal(t, "QS-2024-001", fields["contract_number"])
	assert.Equal(t, "eur", fields["currency"])
	assert.Equal(t, "$2,500,000", fields["premium_amount"])
}

func TestFlattenFirstSeenWins(t *testing.T) {
	// List order is deterministic, unlike map iteration.
	payload := map[string]any{
		"fields": []any{
			map[string]any{"name": "contract_name", "value": "First"},
			map[string]any{"name": "contract_name", "value": "Second"},
		},
	}

	fields := Flatten(payload)

	assert.Equal(t, "First", fields["contract_name"])
}

func TestFlattenCyclicPayloadTerminates(t *testing.T) {
	inner := map[string]any{"contract_name": "Cyclic Treaty"}
	inner["self"] = inner
	payload := map[string]any{"data": inner}

	fields := Flatten(payload)

	assert.Equal(t, "Cyclic Treaty", fields["contract_name"])
}

func TestFlattenSharedNodeVisitedOnce(t *testing.T) {
	shared := map[string]any{"contract_number": "SHARED-1"}
	payload := map[string]any{
		"a": shared,
		"b": shared,
	}

	fields := Flatten(payload)

	assert.Equal(t, "SHARED-1", fields["contract_number"])
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"plain string trimmed", "  hello  ", "hello"},
		{"empty string is nil", "   ", nil},
		{"number passes through", 42.5, 42.5},
		{"bool passes through", true, true},
		{"priority key value", map[string]any{"value": "v", "text": "t"}, "v"},
		{"priority key text", map[string]any{"text": "t", "other": "x"}, "t"},
		{"values list", map[string]any{"values": []any{nil, "first"}}, "first"},
		{"lone key object", map[string]any{"anything": "inner"}, "inner"},
		{"multi key no priority", map[string]any{"a": "x", "b": "y"}, nil},
		{"list first non-nil", []any{nil, "", "found"}, "found"},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unwrap(tt.value))
		})
	}
}

func TestUnwrapCyclicObject(t *testing.T) {
	cyclic := map[string]any{}
	cyclic["value"] = cyclic

	assert.Nil(t, Unwrap(cyclic))
}

func TestLookup(t *testing.T) {
	fields := map[string]any{
		"Contract_Name":  "Cased Treaty",
		"premium_amount": "",
		"premium":        "1000",
	}

	// Case-insensitive fallback after exact misses.
	assert.Equal(t, "Cased Treaty", Lookup(fields, "contract_name", "contractName"))

	// Empty values never match; the alias carries the value.
	assert.Equal(t, "1000", Lookup(fields, "premium_amount", "premium"))

	assert.Nil(t, Lookup(fields, "limit_amount", "limitAmount"))
}

func TestCleanNumeric(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"currency symbols and commas", "$1,234,567.89", "1234567.89"},
		{"percent sign", "12.5%", "12.5"},
		{"euro with spaces", "€ 2 500", "2500"},
		{"pound", "£500.00", "500.00"},
		{"plain float", 1000000.0, "1000000"},
		{"plain int", 250, "250"},
		{"non-numeric", "abc", ""},
		{"mixed garbage", "$abc,def", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanNumeric(tt.value))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"iso passes through", "2024-05-01", "2024-05-01"},
		{"us slash", "01/02/2024", "2024-01-02"},
		{"long month", "March 3, 2024", "2024-03-03"},
		{"short month", "Jan 2, 2024", "2024-01-02"},
		{"day first long", "2 January 2024", "2024-01-02"},
		{"unparseable returned unchanged", "not-a-date", "not-a-date"},
		{"whitespace trimmed", "  2024-05-01  ", "2024-05-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.value))
		})
	}
}

func TestMapContractUnwrapsAndCleansWrappedAmount(t *testing.T) {
	fields := Flatten(map[string]any{
		"premium_amount": map[string]any{"value": "  $1,000.00  "},
	})

	draft := MapContract(fields)

	assert.Equal(t, "1000.00", draft.PremiumAmount)
}

func TestMapContractDerivesNumberFromName(t *testing.T) {
	fields := map[string]any{
		"contract_name": "Re/Max Treaty #1!",
	}

	draft := MapContract(fields)

	assert.Equal(t, "Re-Max-Treaty--1-", draft.ContractNumber)
}

func TestMapContractNumberNotDerivedWhenPresent(t *testing.T) {
	fields := map[string]any{
		"contract_name":   "Some Treaty",
		"contract_number": "TR-001",
	}

	draft := MapContract(fields)

	assert.Equal(t, "TR-001", draft.ContractNumber)
}

func TestMapContractTypeNatureSplit(t *testing.T) {
	draft := MapContract(map[string]any{
		"contract_type": "Treaty - Proportional",
	})
	assert.Equal(t, "Treaty", draft.ContractType)
	assert.Equal(t, "Proportional", draft.ContractNature)

	// Explicit nature wins over splitting.
	draft = MapContract(map[string]any{
		"contract_type":   "Treaty - Proportional",
		"contract_nature": "Non-Proportional",
	})
	assert.Equal(t, "Treaty - Proportional", draft.ContractType)
	assert.Equal(t, "Non-Proportional", draft.ContractNature)

	// Colon separator.
	draft = MapContract(map[string]any{
		"contract_type": "Facultative: Non-Proportional",
	})
	assert.Equal(t, "Facultative", draft.ContractType)
	assert.Equal(t, "Non-Proportional", draft.ContractNature)
}

func TestMapContractLimitPrecedence(t *testing.T) {
	draft := MapContract(map[string]any{
		"limit_covered": "$5,000,000",
		"upper_limit":   "$9,000,000",
	})
	assert.Equal(t, "5000000", draft.LimitAmount)

	draft = MapContract(map[string]any{
		"upper_limit": "$9,000,000",
	})
	assert.Equal(t, "9000000", draft.LimitAmount)
}

func TestMapContractCurrency(t *testing.T) {
	draft := MapContract(map[string]any{"currency": "eur"})
	assert.Equal(t, "EUR", draft.Currency)

	draft = MapContract(map[string]any{"currency": "euros"})
	assert.Equal(t, "USD", draft.Currency)

	draft = MapContract(map[string]any{})
	assert.Equal(t, "USD", draft.Currency)
}

func TestMapContractRetentionAliases(t *testing.T) {
	draft := MapContract(map[string]any{"deductible": "$100,000"})
	assert.Equal(t, "100000", draft.RetentionAmount)

	draft = MapContract(map[string]any{"retention_amount": "250000"})
	assert.Equal(t, "250000", draft.RetentionAmount)
}

func TestMapPartiesOrdering(t *testing.T) {
	parties := MapParties(map[string]any{
		"reinsurer_name": "Global Re",
		"cedant_name":    "Pacific Insurance Co",
	})

	require.Len(t, parties, 2)
	assert.Equal(t, "Pacific Insurance Co", parties[0].Name)
	assert.Equal(t, model.PartyTypeCedant, parties[0].PartyType)
	assert.Equal(t, "Global Re", parties[1].Name)
	assert.Equal(t, model.PartyTypeReinsurer, parties[1].PartyType)
	assert.True(t, parties[0].IsActive)
}

func TestMapPartiesCedentSpelling(t *testing.T) {
	parties := MapParties(map[string]any{
		"cedent_name": "Atlas Mutual",
	})

	require.Len(t, parties, 1)
	assert.Equal(t, "Atlas Mutual", parties[0].Name)
	assert.Equal(t, model.PartyTypeCedant, parties[0].PartyType)
}

func TestParseExtraction(t *testing.T) {
	raw := map[string]any{
		"confidence": 0.91,
		"data": map[string]any{
			"contract_name":  "Pacific Quota Share 2024",
			"effective_date": "January 1, 2024",
			"premium_amount": map[string]any{"value": "$2,500,000"},
			"cedant_name":    "Pacific Insurance Co",
			"reinsurer_name": "Global Re",
		},
	}
	metadata := map[string]any{"filename": "treaty.pdf"}

	parsed := ParseExtraction(raw, metadata)

	assert.Equal(t, "Pacific Quota Share 2024", parsed.ContractData.ContractName)
	assert.Equal(t, "Pacific-Quota-Share-2024", parsed.ContractData.ContractNumber)
	assert.Equal(t, "2024-01-01", parsed.ContractData.EffectiveDate)
	assert.Equal(t, "2500000", parsed.ContractData.PremiumAmount)
	require.Len(t, parsed.PartiesData, 2)
	require.NotNil(t, parsed.ConfidenceScore)
	assert.InDelta(t, 0.91, *parsed.ConfidenceScore, 0.0001)
	assert.Equal(t, metadata, parsed.ExtractionMetadata)
}
