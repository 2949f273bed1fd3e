package letter

import "strings"

// FormatBody substitutes %KEY% tokens in a template body with the supplied
// parameter values. Unknown tokens are left in place so a misconfigured
// template is visible in the output rather than silently blanked.
func FormatBody(body string, params map[string]string) string {
	if len(params) == 0 {
		return body
	}
	pairs := make([]string, 0, len(params)*2)
	for key, value := range params {
		pairs = append(pairs, "%"+key+"%", value)
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

// NormalizeRecipients splits a recipient string on the separators seen in
// setup data (commas, semicolons, stray quotes and spaces) and rejoins the
// non-empty parts with commas.
func NormalizeRecipients(recipients string) string {
	if recipients == "" {
		return ""
	}
	parts := strings.FieldsFunc(recipients, func(r rune) bool {
		switch r {
		case ',', ';', '!', ' ', '\'':
			return true
		}
		return false
	})
	return strings.Join(parts, ",")
}
