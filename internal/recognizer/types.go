package recognizer

// Pattern is a single scored regex within a recognizer.
type Pattern struct {
	Name  string  `yaml:"name" json:"name"`
	Regex string  `yaml:"regex" json:"regex"`
	Score float64 `yaml:"score" json:"score"`
}

// Checksum names a validation gate applied to raw pattern matches.
const (
	ChecksumLuhn = "luhn"
	ChecksumIBAN = "iban"
)

// Config describes one recognizer: the entity type it emits, its patterns,
// optional context words that boost confidence, and the languages it applies
// to (empty means all).
type Config struct {
	Name      string    `yaml:"name" json:"name"`
	Entity    string    `yaml:"supported_entity" json:"supported_entity"`
	Patterns  []Pattern `yaml:"patterns" json:"patterns"`
	Context   []string  `yaml:"context,omitempty" json:"context,omitempty"`
	Languages []string  `yaml:"supported_languages,omitempty" json:"supported_languages,omitempty"`
	Checksum  string    `yaml:"checksum,omitempty" json:"checksum,omitempty"`
}

// File is the top-level YAML structure for a custom recognizer file.
type File struct {
	Recognizers []Config `yaml:"recognizers"`
}

func (c Config) appliesTo(lang string) bool {
	if len(c.Languages) == 0 {
		return true
	}
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
