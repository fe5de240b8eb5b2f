package recognizer

// universalRecognizers covers the entity types detected in every language.
// Ambiguous formats (credit cards, IBANs) carry checksum gates; heuristic
// recognizers (PERSON, LOCATION) score low enough that context words decide.
func universalRecognizers() []Config {
	return []Config{
		{
			Name:   "email_recognizer",
			Entity: "EMAIL_ADDRESS",
			Patterns: []Pattern{
				{Name: "email", Regex: `\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`, Score: 0.9},
			},
			Context: []string{"email", "e-mail", "mail", "contact"},
		},
		{
			Name:   "url_recognizer",
			Entity: "URL",
			Patterns: []Pattern{
				{Name: "url_scheme", Regex: `\bhttps?://[A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=%]+`, Score: 0.85},
				{Name: "url_www", Regex: `\bwww\.[A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=%]+`, Score: 0.8},
			},
		},
		{
			Name:   "ip_recognizer",
			Entity: "IP_ADDRESS",
			Patterns: []Pattern{
				{Name: "ipv4", Regex: `\b(?:(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\.){3}(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\b`, Score: 0.9},
				{Name: "ipv6_full", Regex: `\b(?:[A-Fa-f0-9]{1,4}:){7}[A-Fa-f0-9]{1,4}\b`, Score: 0.85},
			},
			Context: []string{"ip", "address", "host", "server"},
		},
		{
			Name:   "phone_recognizer",
			Entity: "PHONE_NUMBER",
			Patterns: []Pattern{
				{Name: "phone_nanp", Regex: `\b(?:\+?1[\s\-.]?)?(?:\(\d{3}\)|\d{3})[\s\-.]?\d{3}[\s\-.]?\d{4}\b`, Score: 0.7},
				{Name: "phone_international", Regex: `\+\d{1,3}[\s\-.]?\d{2,4}[\s\-.]?\d{3,4}[\s\-.]?\d{3,4}\b`, Score: 0.75},
			},
			Context: []string{"phone", "call", "tel", "mobile", "cell", "fax"},
		},
		{
			Name:   "credit_card_recognizer",
			Entity: "CREDIT_CARD",
			Patterns: []Pattern{
				{Name: "card_16_digit", Regex: `\b\d{4}[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`, Score: 0.8},
				{Name: "card_amex", Regex: `\b3[47]\d{2}[\s\-]?\d{6}[\s\-]?\d{5}\b`, Score: 0.8},
			},
			Context:  []string{"card", "credit", "visa", "mastercard", "amex", "payment"},
			Checksum: ChecksumLuhn,
		},
		{
			Name:   "iban_recognizer",
			Entity: "IBAN_CODE",
			Patterns: []Pattern{
				{Name: "iban_generic", Regex: `\b[A-Z]{2}\d{2}[\s\-]?(?:[A-Z0-9]{4}[\s\-]?){2,7}[A-Z0-9]{1,4}\b`, Score: 0.8},
			},
			Context:  []string{"iban", "account", "bank", "transfer"},
			Checksum: ChecksumIBAN,
		},
		{
			Name:   "date_time_recognizer",
			Entity: "DATE_TIME",
			Patterns: []Pattern{
				{Name: "date_iso", Regex: `\b\d{4}-\d{2}-\d{2}(?:[T\s]\d{2}:\d{2}(?::\d{2})?)?\b`, Score: 0.75},
				{Name: "date_slash", Regex: `\b(?:0?[1-9]|[12]\d|3[01])[./](?:0?[1-9]|1[0-2])[./](?:19|20)\d{2}\b`, Score: 0.7},
				{Name: "date_us", Regex: `\b(?:0?[1-9]|1[0-2])/(?:0?[1-9]|[12]\d|3[01])/(?:19|20)\d{2}\b`, Score: 0.7},
			},
			Context: []string{"date", "born", "birthday", "on"},
		},
		{
			Name:   "us_ssn_recognizer",
			Entity: "US_SSN",
			Patterns: []Pattern{
				{Name: "ssn_dashed", Regex: `\b\d{3}-\d{2}-\d{4}\b`, Score: 0.85},
			},
			Context: []string{"ssn", "social security", "social-security"},
		},
		{
			Name:   "person_recognizer",
			Entity: "PERSON",
			Patterns: []Pattern{
				{Name: "person_honorific", Regex: `\b(?:Mr|Mrs|Ms|Dr|Prof)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`, Score: 0.75},
				{Name: "person_name_intro", Regex: `(?i:my name is|name:|i am)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`, Score: 0.7},
			},
			Context: []string{"name", "person", "contact", "regards", "sincerely"},
		},
		{
			Name:   "location_recognizer",
			Entity: "LOCATION",
			Patterns: []Pattern{
				{Name: "street_address", Regex: `\b\d{1,5}\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Place|Pl)\b\.?`, Score: 0.8},
				{Name: "city_state_zip", Regex: `\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?,\s+[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`, Score: 0.85},
			},
			Context: []string{"address", "live", "located", "residence", "street"},
		},
	}
}

// englishRecognizers adds English-only entity types.
func englishRecognizers() []Config {
	return []Config{
		{
			Name:   "crypto_wallet_recognizer",
			Entity: "CRYPTO_WALLET",
			Patterns: []Pattern{
				{Name: "bitcoin_address", Regex: `\b(?:[13][a-km-zA-HJ-NP-Z1-9]{25,34}|bc1[a-z0-9]{39,59})\b`, Score: 0.8},
				{Name: "ethereum_address", Regex: `\b0x[a-fA-F0-9]{40}\b`, Score: 0.8},
			},
			Context:   []string{"wallet", "bitcoin", "btc", "ethereum", "eth", "crypto"},
			Languages: []string{"en"},
		},
		{
			Name:   "medical_license_recognizer",
			Entity: "MEDICAL_LICENSE",
			Patterns: []Pattern{
				{Name: "medical_license", Regex: `\b(?:MD|DO|NP|PA|RN|LPN|DDS|DMD|PharmD)[\s\-]?\d{6,10}\b`, Score: 0.7},
				{Name: "dea_number", Regex: `\b[A-Z]{2}\d{7}\b`, Score: 0.8},
			},
			Context:   []string{"license", "medical", "dea", "physician"},
			Languages: []string{"en"},
		},
		{
			Name:   "professional_license_recognizer",
			Entity: "PROFESSIONAL_LICENSE",
			Patterns: []Pattern{
				{Name: "generic_license", Regex: `\b(?:LIC|LICENSE|PERMIT)[\s\-]?\d{6,12}\b`, Score: 0.6},
				{Name: "professional_license", Regex: `\b(?:CPA|PE|ESQ|JD|PhD)[\s\-]?\d{4,10}\b`, Score: 0.7},
			},
			Context:   []string{"license", "permit", "certification"},
			Languages: []string{"en"},
		},
		{
			Name:   "nrp_recognizer",
			Entity: "NRP",
			Patterns: []Pattern{
				{Name: "nationality_indicator", Regex: `\b(?:nationality|citizen(?:ship)?)[\s:]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`, Score: 0.6},
				{Name: "religion_indicator", Regex: `\b(?:religion|religious|faith)[\s:]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`, Score: 0.6},
				{Name: "political_indicator", Regex: `\b(?:political|party|affiliation)[\s:]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`, Score: 0.6},
			},
			Languages: []string{"en"},
		},
	}
}
