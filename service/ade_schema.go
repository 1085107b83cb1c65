package service

// ContractExtractionSchema returns the JSON schema sent to the vendor's
// extract endpoint. It names the reinsurance contract fields to pull from
// a parsed document; the vendor is free to nest or wrap the result, which
// is why the normalizer flattens rather than decoding a fixed shape.
func ContractExtractionSchema() map[string]any {
	str := func(title, description string) map[string]any {
		return map[string]any{
			"type":        "string",
			"title":       title,
			"description": description,
		}
	}

	return map[string]any{
		"type":  "object",
		"title": "ReinsuranceContractFieldExtraction",
		"properties": map[string]any{
			// Party information
			"cedant_name":    str("Cedant Name", "The full legal name of the insurance company ceding risk under the contract."),
			"reinsurer_name": str("Reinsurer Name", "The full legal name of the insurance company accepting risk under the contract."),

			// Contract identification
			"contract_name":     str("Contract Name", "The formal name or title of the reinsurance agreement."),
			"contract_type":     str("Type of Contract", "The type of reinsurance contract, such as 'Treaty' or 'Facultative'."),
			"contract_sub_type": str("Contract Sub-Type", "The sub-type of reinsurance contract, such as 'Quota Share', 'Surplus', 'XOL' (Excess of Loss), 'Facultative Obligatory', or 'Facultative Optional'."),
			"contract_nature":   str("Nature of Contract", "The nature of the reinsurance contract, such as 'Proportional' or 'Non-Proportional'."),
			"contract_number":   str("Contract Number", "Unique contract or agreement number."),

			// Financial terms
			"premium_amount":    str("Premium Amount", "The premium amount or share to be paid by the cedant to the reinsurer for the coverage under this contract."),
			"commission_rate":   str("Commission Rate", "The commission rate or percentage paid by the reinsurer to the cedant or broker, typically expressed as a percentage."),
			"deductible_amount": str("Deductible/Retention Amount", "The amount or percentage of risk retained by the cedant before reinsurance coverage applies (also known as retention)."),
			"limit_covered":     str("Limit Covered", "The amount or percentage of coverage provided by the reinsurer under the contract."),
			"upper_limit":       str("Upper Limit", "The highest monetary or percentage limit up to which the reinsurer is liable under the contract."),
			"currency":          str("Currency", "Currency code (e.g., USD, EUR, GBP)."),

			// Coverage details
			"attachment_criteria": str("Attachment Criteria", "The criteria or conditions under which policies and claims attach to this reinsurance contract."),
			"line_of_business":    str("Line of Business", "Line of business: property, casualty, health, marine, aviation, etc."),
			"coverage_territory":  str("Coverage Territory", "Geographic coverage area or territory."),

			// Dates and terms
			"effective_date":       str("Effective Date", "The date when the contract becomes effective (format: YYYY-MM-DD or MM/DD/YYYY)."),
			"expiration_date":      str("Expiration Date", "The date when the contract expires (format: YYYY-MM-DD or MM/DD/YYYY)."),
			"terms_and_conditions": str("Terms and Conditions", "Summary of key terms and conditions."),
			"special_provisions":   str("Special Provisions", "Any special provisions or clauses."),
		},
		"required": []string{
			"cedant_name", "reinsurer_name", "contract_name", "contract_type",
			"contract_sub_type", "contract_nature", "premium_amount",
			"commission_rate", "deductible_amount", "limit_covered",
			"upper_limit", "attachment_criteria",
		},
	}
}
