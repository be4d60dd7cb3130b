package submission

import "strings"

// placeholderTokens maps the upstream spreadsheet escape tokens back to their
// literal characters. Power Automate column names render punctuation as
// _xNNNN_ (XML character reference style), e.g. "What_x0027_s" or
// "Portfolio URL_x002e_".
var placeholderTokens = [...]struct {
	token   string
	literal string
}{
	{"_x0020_", " "},
	{"_x0023_", "#"},
	{"_x0027_", "'"},
	{"_x002e_", "."},
	{"_x002f_", "/"},
	{"_x003a_", ":"},
	{"_x003f_", "?"},
}

// urlFieldCores are field-name cores that the form system versions with a
// numeric suffix when the schema changes ("LinkedIn Profile URL2"). Any key
// containing a core collapses to the bare core name.
var urlFieldCores = []string{
	"LinkedIn Profile URL",
	"Portfolio URL",
}

// CleanKey normalizes a raw export column name: placeholder tokens are
// decoded, versioned URL fields collapse to their bare names, and surrounding
// whitespace is trimmed. CleanKey is idempotent.
func CleanKey(key string) string {
	for _, p := range placeholderTokens {
		key = strings.ReplaceAll(key, p.token, p.literal)
	}
	lower := strings.ToLower(key)
	for _, core := range urlFieldCores {
		if strings.Contains(lower, strings.ToLower(core)) {
			key = core
			break
		}
	}
	return strings.TrimSpace(key)
}

// isSystemKey reports whether a raw key is protocol-internal metadata such as
// the @odata.etag change-tracking tag. System keys are dropped before
// cleaning or classification.
func isSystemKey(key string) bool {
	return strings.HasPrefix(key, "@")
}
