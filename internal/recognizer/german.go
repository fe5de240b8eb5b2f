package recognizer

// germanRecognizers is the German pack: identifiers issued by German
// authorities plus German-format financial, address, and name patterns.
// Context-anchored patterns use a capture group so only the value itself
// is reported.
func germanRecognizers() []Config {
	de := []string{"de"}
	return []Config{
		{
			Name:   "german_tax_id_recognizer",
			Entity: "DE_TAX_ID",
			Patterns: []Pattern{
				{Name: "german_tax_id_flexible", Regex: `\b\d{2}[\s\-.]?\d{3}[\s\-.]?\d{3}[\s\-.]?\d{3}\b`, Score: 0.9},
				{Name: "german_tax_id_context", Regex: `(?i)\b(?:steuer[^\w]?id|steuernummer|identifikationsnummer)[\s:]*(\d{2}[\s\-.]?\d{3}[\s\-.]?\d{3}[\s\-.]?\d{3})\b`, Score: 0.98},
			},
			Context:   []string{"steuer", "finanzamt"},
			Languages: de,
		},
		{
			Name:   "german_pension_insurance_recognizer",
			Entity: "DE_PENSION_INSURANCE",
			Patterns: []Pattern{
				{Name: "german_pension_insurance_flexible", Regex: `\b\d{2}[\s\-]?\d{6}[\s\-]?[A-Z][\s\-]?\d{3}\b`, Score: 0.85},
				{Name: "german_pension_insurance_context", Regex: `(?i)\b(?:rentenversicherungsnummer|rvnr)[\s:]*(\d{2}[\s\-]?\d{6}[\s\-]?[A-Z][\s\-]?\d{3})\b`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_health_insurance_recognizer",
			Entity: "DE_HEALTH_INSURANCE",
			Patterns: []Pattern{
				{Name: "german_health_insurance_standard", Regex: `\b[A-Z]\d{9}\b`, Score: 0.8},
				{Name: "german_health_insurance_context", Regex: `(?i)\b(?:krankenversicherungsnummer|kvnr|versichertennummer)[\s:]*([A-Z][\s\-]?\d{9})\b`, Score: 0.95},
			},
			Context:   []string{"krankenkasse", "versicherung"},
			Languages: de,
		},
		{
			Name:   "german_company_tax_recognizer",
			Entity: "DE_COMPANY_TAX",
			Patterns: []Pattern{
				{Name: "german_company_tax_standard", Regex: `\b\d{2,3}/\d{3}/\d{4,5}\b`, Score: 0.8},
				{Name: "german_company_tax_context", Regex: `(?i)\b(?:steuernummer|st[^\w]?nr)[\s:]*(\d{2,3}[\s\-/]?\d{3}[\s\-/]?\d{4,5})\b`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_vat_id_recognizer",
			Entity: "DE_VAT_ID",
			Patterns: []Pattern{
				{Name: "german_vat_id_standard", Regex: `\bDE\d{9}\b`, Score: 0.9},
				{Name: "german_vat_id_flexible", Regex: `\bDE[\s\-]?\d{3}[\s\-]?\d{3}[\s\-]?\d{3}\b`, Score: 0.9},
			},
			Context:   []string{"umsatzsteuer", "ust", "vat"},
			Languages: de,
		},
		{
			Name:   "german_commercial_register_recognizer",
			Entity: "DE_COMMERCIAL_REGISTER",
			Patterns: []Pattern{
				{Name: "german_commercial_register_standard", Regex: `\bHR[AB][\s\-]?\d{4,6}\b`, Score: 0.85},
				{Name: "german_commercial_register_full", Regex: `(?i)\b(?:ag|gmbh|kg|ohg)[\s,]+(?:hrb|hra)[\s\-]?(\d{4,6})\b`, Score: 0.9},
			},
			Context:   []string{"handelsregister", "amtsgericht"},
			Languages: de,
		},
		{
			Name:   "german_iban_recognizer",
			Entity: "DE_IBAN",
			Patterns: []Pattern{
				{Name: "german_iban_standard", Regex: `\bDE\d{2}\s?(?:\d{4}\s?){4}\d{2}\b`, Score: 0.95},
				{Name: "german_iban_continuous", Regex: `\bDE\d{20}\b`, Score: 0.95},
			},
			Context:   []string{"iban", "konto", "überweisung"},
			Checksum:  ChecksumIBAN,
			Languages: de,
		},
		{
			Name:   "german_bic_recognizer",
			Entity: "BIC_SWIFT",
			Patterns: []Pattern{
				{Name: "bic_swift_german", Regex: `\b[A-Z]{4}DE[A-Z0-9]{2}(?:[A-Z0-9]{3})?\b`, Score: 0.9},
				{Name: "bic_swift_context", Regex: `(?i)\b(?:bic|swift)[\s:]*([A-Z]{4}DE[A-Z0-9]{2}(?:[A-Z0-9]{3})?)\b`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_phone_recognizer",
			Entity: "DE_PHONE_NUMBER",
			Patterns: []Pattern{
				{Name: "german_mobile", Regex: `\b(?:\+49[\s\-.]?)?(?:0?1[567]\d[\s\-.]?\d{7,8})\b`, Score: 0.9},
				{Name: "german_phone_international", Regex: `\+49[\s\-.]?\d{2,4}[\s\-.]?\d{6,8}\b`, Score: 0.95},
				{Name: "german_phone_context", Regex: `(?i)\b(?:telefon|tel|mobil|handy|festnetz|fax)[\s.:]*(?:nr\.?|nummer)?[\s.:]*(\+?[\d][\d\s\-.()]{7,})`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_street_address_recognizer",
			Entity: "DE_STREET_ADDRESS",
			Patterns: []Pattern{
				{Name: "german_street_with_number", Regex: `\b[A-ZÄÖÜ][a-zäöüß]+(?:straße|str\.?|gasse|weg|platz|allee|ring|hof|damm|park|ufer)[\s\-]?\d+[a-zA-Z]?\b`, Score: 0.9},
				{Name: "german_full_address", Regex: `\b[A-ZÄÖÜ][a-zäöüß]+(?:straße|str\.?|gasse|weg|platz|allee|ring|hof|damm)[\s\-]?\d+[a-zA-Z]?[\s,]*\d{5}\s+[A-ZÄÖÜ][a-zäöüß]+\b`, Score: 0.95},
			},
			Context:   []string{"adresse", "anschrift", "wohnhaft"},
			Languages: de,
		},
		{
			Name:   "german_id_card_recognizer",
			Entity: "DE_ID_CARD",
			Patterns: []Pattern{
				{Name: "german_id_card_new_format", Regex: `\b[CFGHJKLMNPRTVWXYZ]\d{8}[CFGHJKLMNPRTVWXYZ]\b`, Score: 0.9},
				{Name: "german_id_card_context", Regex: `(?i)\b(?:personalausweis|ausweis[^\w]?nr)[\s:]*([A-Z0-9]{9,11})\b`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_passport_recognizer",
			Entity: "DE_PASSPORT",
			Patterns: []Pattern{
				{Name: "german_passport_new_format", Regex: `\b[CFGHJKLMNPRTVWXYZ]\d{8}\b`, Score: 0.9},
				{Name: "german_passport_context", Regex: `(?i)\b(?:reisepass|passport|pass[^\w]?nr)[\s:]*([CFGHJKLMNPRTVWXYZ][0-9CFGHJKLMNPRTVWXYZ]{8})\b`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_driving_license_recognizer",
			Entity: "DE_DRIVING_LICENSE",
			Patterns: []Pattern{
				{Name: "german_driving_license_new", Regex: `\b[A-Z0-9]{11}\b`, Score: 0.75},
				{Name: "german_driving_license_context", Regex: `(?i)\b(?:führerschein|fahrerlaubnis)[\s:]*([A-Z0-9]{7,11})\b`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_residence_permit_recognizer",
			Entity: "DE_RESIDENCE_PERMIT",
			Patterns: []Pattern{
				{Name: "german_residence_permit_standard", Regex: `\b[A-Z]\d{9}[A-Z]\d\b`, Score: 0.85},
				{Name: "german_residence_permit_context", Regex: `(?i)\b(?:aufenthaltstitel|aufenthaltsgenehmigung)[\s:]*([A-Z]\d{9}[A-Z]\d)\b`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_bank_account_recognizer",
			Entity: "DE_BANK_ACCOUNT",
			Patterns: []Pattern{
				{Name: "german_bank_account_context", Regex: `(?i)(?:kontonummer|konto[^\w]?nr|account[^\w]?number)[\s:]*(\d{8,12})`, Score: 0.9},
				{Name: "german_bank_blz", Regex: `(?i)(?:blz|bankleitzahl)[\s:]*(\d{8})\b`, Score: 0.9},
			},
			Languages: de,
		},
		{
			Name:   "german_social_security_recognizer",
			Entity: "DE_SOCIAL_SECURITY",
			Patterns: []Pattern{
				{Name: "german_social_security_standard", Regex: `\b\d{2}[\s\-]?\d{6}[\s\-]?[A-Z][\s\-]?\d{3}\b`, Score: 0.9},
				{Name: "german_social_security_context", Regex: `(?i)(?:sozialversicherungsnummer|sv[^\w]?nummer)[\s:]*(\d{2}[\s\-]?\d{6}[\s\-]?[A-Z][\s\-]?\d{3})`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_date_of_birth_recognizer",
			Entity: "DE_DATE_OF_BIRTH",
			Patterns: []Pattern{
				{Name: "german_date_dd_mm_yyyy", Regex: `\b(?:[0-3]?\d)[.\-/](?:[01]?\d)[.\-/](?:19|20)?\d{2}\b`, Score: 0.8},
				{Name: "german_dob_context", Regex: `(?i)(?:geburtstag|geb\.?|geboren|geburtsdatum)[\s:]*(\d{1,2}[.\-/]\d{1,2}[.\-/]\d{2,4})`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_person_name_recognizer",
			Entity: "DE_PERSON_NAME",
			Patterns: []Pattern{
				{Name: "german_name_titles", Regex: `(?i:herr|frau|dr\.?|prof\.?|professor|doktor)\s+([A-ZÄÖÜ][a-zäöüß]+(?:[\s\-][A-ZÄÖÜ][a-zäöüß]+)*)`, Score: 0.9},
				{Name: "german_name_nobility", Regex: `\b([A-ZÄÖÜ][a-zäöüß]+\s+(?:von|van|de|zu|zur|zum)\s+[A-ZÄÖÜ][a-zäöüß]+)\b`, Score: 0.9},
				{Name: "german_name_context", Regex: `(?i:mein\s+name\s+ist|ich\s+heiße|name)[\s:]*([A-ZÄÖÜ][a-zäöüß]+(?:[\s\-][A-ZÄÖÜ][a-zäöüß]+)+)`, Score: 0.85},
			},
			Languages: de,
		},
		{
			Name:   "german_credit_card_recognizer",
			Entity: "DE_CREDIT_CARD",
			Patterns: []Pattern{
				{Name: "credit_card_formatted", Regex: `\b\d{4}[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`, Score: 0.9},
				{Name: "credit_card_context", Regex: `(?i)(?:kreditkarte|kartennummer)[\s:]*(\d{4}[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4})`, Score: 0.98},
			},
			Checksum:  ChecksumLuhn,
			Languages: de,
		},
		{
			Name:   "german_customer_id_recognizer",
			Entity: "DE_CUSTOMER_ID",
			Patterns: []Pattern{
				{Name: "insurance_customer_ids", Regex: `\b(?:AOK|TK|BKK|DAK|IKK|KKH|BARMER)[\-.]?\d{6,10}\b`, Score: 0.9},
				{Name: "customer_id_context", Regex: `(?i)(?:kundennummer|kunden[^\w]?id|mitgliedsnummer)[\s:]*([A-Z0-9\-.]{6,15})`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_expiry_date_recognizer",
			Entity: "DE_EXPIRY_DATE",
			Patterns: []Pattern{
				{Name: "expiry_date_context", Regex: `(?i)(?:ablauf|gültig\s+bis|verfallsdatum|expires?)[\s:]*([01]?\d[\-/](?:\d{2}|20\d{2}))`, Score: 0.95},
				{Name: "expiry_date_german_format", Regex: `(?i)(?:gültig\s+bis|verfallsdatum|ablaufdatum)[\s:]*(\d{1,2}[.\-/]\d{1,2}[.\-/]\d{2,4})`, Score: 0.95},
			},
			Languages: de,
		},
		{
			Name:   "german_postal_code_recognizer",
			Entity: "DE_POSTAL_CODE",
			Patterns: []Pattern{
				{Name: "german_postal_code_context", Regex: `(?i)\b(?:plz|postleitzahl)[\s:]*(\d{5})\b`, Score: 0.95},
				{Name: "german_postal_code_address", Regex: `\b(\d{5})\s+[A-ZÄÖÜ][a-zäöüß]+(?:[\s\-][A-ZÄÖÜ][a-zäöüß]+)*\b`, Score: 0.85},
			},
			Languages: de,
		},
		{
			Name:   "german_street_name_recognizer",
			Entity: "DE_STREET_NAME",
			Patterns: []Pattern{
				{Name: "german_street_name", Regex: `\b([A-ZÄÖÜ][a-zäöüß]+(?:straße|gasse|weg|platz|allee|ring|hof|damm|ufer|berg|tal|brücke|steig|pfad))\b`, Score: 0.85},
			},
			Context:   []string{"wohnt", "adresse", "ansässig"},
			Languages: de,
		},
	}
}
