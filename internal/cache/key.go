package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/veilware/veil/internal/pii"
)

// Key builds the analysis fingerprint for a (text, language, entity types)
// request. The entity type set is sorted first, so the same set in any order
// yields the same key.
func Key(text string, lang pii.Language, entityTypes []string) string {
	sum := sha256.Sum256([]byte(text))

	types := make([]string, len(entityTypes))
	copy(types, entityTypes)
	sort.Strings(types)

	return fmt.Sprintf("%s_%s_%s", hex.EncodeToString(sum[:])[:16], lang, strings.Join(types, ","))
}
