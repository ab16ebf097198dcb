package index

// Recognized list-mode fields.
const (
	FieldID      = "id"
	FieldGallery = "gallery"
	FieldIndex   = "Index"
	FieldJA      = "ja"
	FieldENGB    = "en-gb"
)

// Languages lists the supported language codes in their fixed order.
var Languages = []string{"de", "en-gb", "es", "fr", "ja", "ko", "pt-br", "ru-mo", "tr", "zh", "zh-cht"}

// PriorityFields are scanned first and raise a result's rank.
var PriorityFields = []string{FieldGallery, FieldJA, FieldENGB}

// DefaultFields are enabled when no configuration says otherwise.
var DefaultFields = []string{FieldGallery, FieldJA, FieldENGB}

// ScanOrder returns the order list-mode fields are tested in, excluding
// Index: priority fields, then the remaining languages.
func ScanOrder() []string {
	order := append([]string(nil), PriorityFields...)
	for _, lang := range Languages {
		if !isPriority(lang) {
			order = append(order, lang)
		}
	}
	return order
}

// ToggleFields returns every field that can be switched on or off,
// including Index.
func ToggleFields() []string {
	return append(ScanOrder(), FieldIndex)
}

// IsRecognized reports whether name is a known list-mode field.
func IsRecognized(name string) bool {
	switch name {
	case FieldID, FieldGallery, FieldIndex:
		return true
	}
	return isLanguage(name)
}

// IsToggle reports whether name can be enabled for searching.
func IsToggle(name string) bool {
	return name == FieldGallery || name == FieldIndex || isLanguage(name)
}

func isPriority(name string) bool {
	for _, p := range PriorityFields {
		if p == name {
			return true
		}
	}
	return false
}

func isLanguage(name string) bool {
	for _, l := range Languages {
		if l == name {
			return true
		}
	}
	return false
}
