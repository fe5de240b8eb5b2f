package faker

import "fmt"

const idLetters = "ABCDEFGH"

// germanGenerators produces plausible German-format identifiers for the
// DE_* entity family.
func germanGenerators() map[string]generator {
	return map[string]generator{
		"DE_TAX_ID": func(s *source) string {
			return fmt.Sprintf("%011d", s.intn(90000000000)+10000000000)
		},
		"DE_PENSION_INSURANCE": func(s *source) string {
			return fmt.Sprintf("%02d%06dA%03d", s.intn(90), s.intn(999999), s.intn(999))
		},
		"DE_HEALTH_INSURANCE": func(s *source) string {
			return fmt.Sprintf("A%010d", s.intn(9999999999))
		},
		"DE_VAT_ID": func(s *source) string {
			return fmt.Sprintf("DE%09d", s.intn(999999999))
		},
		"DE_IBAN": func(s *source) string {
			return fmt.Sprintf("DE%02d%016d", s.intn(90)+10, s.intn(9999999999999999))
		},
		"DE_PHONE_NUMBER": func(s *source) string {
			return fmt.Sprintf("+49%04d%08d", s.intn(9999), s.intn(99999999))
		},
		"DE_COMPANY_TAX": func(s *source) string {
			return fmt.Sprintf("%d/%d/%d", s.intn(900)+100, s.intn(900)+100, s.intn(90000)+10000)
		},
		"DE_COMMERCIAL_REGISTER": func(s *source) string {
			return fmt.Sprintf("HR%c%d", s.letter("BA"), s.intn(99999)+1000)
		},
		"BIC_SWIFT": func(s *source) string {
			return fmt.Sprintf("DEUTDE2H%03d", s.intn(999))
		},
		"DE_STREET_ADDRESS": func(s *source) string {
			return fmt.Sprintf("Musterstraße %d", s.intn(999)+1)
		},
		"DE_ID_CARD": func(s *source) string {
			return fmt.Sprintf("%c%08d", s.letter(idLetters), s.intn(99999999))
		},
		"DE_PASSPORT": func(s *source) string {
			return fmt.Sprintf("%c%c%07d", s.letter(idLetters), s.letter(idLetters), s.intn(9999999))
		},
		"DE_DRIVING_LICENSE": func(s *source) string {
			if s.intn(2) == 1 {
				return fmt.Sprintf("DE%08d", s.intn(99999999))
			}
			return fmt.Sprintf("%011d", s.intn(99999999999))
		},
		"DE_RESIDENCE_PERMIT": func(s *source) string {
			return fmt.Sprintf("%c%09d%c%d", s.letter(idLetters), s.intn(999999999), s.letter(idLetters), s.intn(9))
		},
		"DE_BANK_ACCOUNT": func(s *source) string {
			return fmt.Sprintf("%010d", s.intn(9999999999))
		},
		"DE_SOCIAL_SECURITY": func(s *source) string {
			return fmt.Sprintf("%02d%06dA%03d", s.intn(90), s.intn(999999), s.intn(999))
		},
		"DE_DATE_OF_BIRTH": func(s *source) string {
			return fmt.Sprintf("%02d.%02d.%d", s.intn(28)+1, s.intn(12)+1, s.intn(50)+1950)
		},
		"DE_PERSON_NAME": func(s *source) string {
			return "Person_" + s.hex(3)
		},
		"DE_CREDIT_CARD": func(s *source) string {
			return fmt.Sprintf("****-****-****-%04d", s.intn(9000)+1000)
		},
		"DE_CUSTOMER_ID": func(s *source) string {
			return fmt.Sprintf("CUST-%06d", s.intn(999999))
		},
		"DE_EXPIRY_DATE": func(s *source) string {
			return fmt.Sprintf("%02d/%02d", s.intn(12)+1, s.intn(10)+25)
		},
		"DE_POSTAL_CODE": func(s *source) string {
			return fmt.Sprintf("%05d", s.intn(90000)+10000)
		},
		"DE_STREET_NAME": func(s *source) string {
			suffixes := []string{"straße", "gasse", "weg", "platz"}
			return "Muster" + suffixes[s.intn(len(suffixes))]
		},
	}
}
