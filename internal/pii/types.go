package pii

import (
	"fmt"
	"time"
)

// Universal entity type labels covered by the built-in recognizers and
// fake-value generators. Custom recognizers may introduce additional labels.
const (
	TypePerson         = "PERSON"
	TypeEmailAddress   = "EMAIL_ADDRESS"
	TypePhoneNumber    = "PHONE_NUMBER"
	TypeCreditCard     = "CREDIT_CARD"
	TypeIBAN           = "IBAN_CODE"
	TypeIPAddress      = "IP_ADDRESS"
	TypeURL            = "URL"
	TypeDateTime       = "DATE_TIME"
	TypeLocation       = "LOCATION"
	TypeUSSSN          = "US_SSN"
	TypeCryptoWallet   = "CRYPTO_WALLET"
	TypeMedicalLicense = "MEDICAL_LICENSE"
)

// EntityMatch is a single detected PII span. Offsets are half-open byte
// offsets into the source text, so Text == source[Start:End] at detection
// time. Values are treated as immutable once constructed.
type EntityMatch struct {
	Type  string  `json:"entity_type"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// NewEntityMatch builds a validated match. Invalid geometry or score is
// rejected immediately rather than surfacing later in the pipeline.
func NewEntityMatch(entityType string, start, end int, text string, score float64) (EntityMatch, error) {
	m := EntityMatch{
		Type:  entityType,
		Start: start,
		End:   end,
		Text:  text,
		Score: score,
	}
	if err := m.Validate(); err != nil {
		return EntityMatch{}, err
	}
	return m, nil
}

// Validate checks span geometry and score bounds.
func (m EntityMatch) Validate() error {
	switch {
	case m.Type == "":
		return NewConfigurationError("entity type must not be empty", nil)
	case m.Start < 0:
		return NewConfigurationError(fmt.Sprintf("start must be >= 0, got %d", m.Start), nil)
	case m.End <= m.Start:
		return NewConfigurationError(fmt.Sprintf("end must be > start, got [%d, %d)", m.Start, m.End), nil)
	case m.Score < 0 || m.Score > 1:
		return NewConfigurationError(fmt.Sprintf("score must be in [0, 1], got %g", m.Score), nil)
	}
	return nil
}

// Len returns the span length in bytes.
func (m EntityMatch) Len() int { return m.End - m.Start }

// Overlaps reports whether the two spans share at least one byte. Adjacent
// spans (m.End == o.Start) do not overlap.
func (m EntityMatch) Overlaps(o EntityMatch) bool {
	return m.Start < o.End && o.Start < m.End
}

// AnonymizedEntity is one entity-map record: the original value, the
// synthetic value that replaced it, and how many occurrences were folded
// into this record.
type AnonymizedEntity struct {
	Type      string  `json:"entity_type"`
	Value     string  `json:"value"`
	FakeValue string  `json:"fake_value"`
	Score     float64 `json:"score"`
	Count     int     `json:"count"`
}

// EntityMap maps deterministic entity IDs ("TYPE_hash8") to their records.
// It is the reversal key for an anonymized document.
type EntityMap map[string]AnonymizedEntity

// ResultMetadata describes the configuration a result was produced under.
type ResultMetadata struct {
	Language            Language `json:"language"`
	ConfidenceThreshold float64  `json:"confidence_threshold"`
	EntitiesProcessed   int      `json:"entities_processed"`
	TextLength          int      `json:"text_length"`
}

// ProcessingResult is the outcome of one anonymization or deanonymization
// pass over a single text.
type ProcessingResult struct {
	AnonymizedText string           `json:"anonymized_text"`
	Entities       EntityMap        `json:"entities"`
	Metadata       ResultMetadata   `json:"metadata"`
	ProcessingTime time.Duration    `json:"processing_time"`
	CacheHits      int              `json:"cache_hits"`
	TotalEntities  int              `json:"total_entities"`
}
