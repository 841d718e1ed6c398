package model

// Language is a lookup row for one supported locale. Languages are inserted
// by an administrator; adding one backfills an empty Translation for every
// existing Item (see service.Cascade).
type Language struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`   // English, French, ...
	ISO2   string `json:"iso2"`   // ISO 639-1, stored uppercase: EN, FR
	ISO3   string `json:"iso3"`   // ISO 639-2, stored uppercase: ENG, FRA
	Locale string `json:"locale"` // BCP 47 tag matching the i18n registry: en-US, fr-FR
}

// CommonLanguages provides a list of commonly used languages for seeding
// and selection UI.
var CommonLanguages = []struct {
	Name   string
	ISO2   string
	ISO3   string
	Locale string
}{
	{"English", "EN", "ENG", "en-US"},
	{"French", "FR", "FRA", "fr-FR"},
	{"German", "DE", "DEU", "de-DE"},
	{"Spanish", "ES", "SPA", "es-ES"},
	{"Italian", "IT", "ITA", "it-IT"},
	{"Portuguese", "PT", "POR", "pt-PT"},
	{"Dutch", "NL", "NLD", "nl-NL"},
	{"Polish", "PL", "POL", "pl-PL"},
	{"Russian", "RU", "RUS", "ru-RU"},
	{"Ukrainian", "UK", "UKR", "uk-UA"},
	{"Japanese", "JA", "JPN", "ja-JP"},
	{"Chinese", "ZH", "ZHO", "zh-CN"},
}
