package model

// Language is one of the options offered by the onboarding picker.
// Stored preferences may also hold free text.
type Language struct {
	Label string
	Value string
}

var supportedLanguages = []Language{
	{Label: "English", Value: "English"},
	{Label: "Spanish", Value: "Spanish"},
	{Label: "German", Value: "German"},
	{Label: "Portuguese", Value: "Portuguese"},
	{Label: "Hindi", Value: "Hindi"},
	{Label: "Telugu", Value: "Telugu"},
}

// SupportedLanguages returns a copy of the picker options in display order.
func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// IsSupportedLanguage reports whether v is one of the picker values.
func IsSupportedLanguage(v string) bool {
	for _, l := range supportedLanguages {
		if l.Value == v {
			return true
		}
	}
	return false
}
