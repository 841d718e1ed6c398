package model

// Translation is the text value for one Item in one Language. Text defaults
// to the empty string and is never null; an empty Translation counts as
// missing. Rows are created by cascade reactions and updated in place.
type Translation struct {
	ID         int64  `json:"id"`
	LanguageID int64  `json:"language_id"`
	ItemID     int64  `json:"item_id"`
	Text       string `json:"text"`
}

// TruncatedText returns the first 20 characters of the text, for listings.
func (t Translation) TruncatedText() string {
	runes := []rune(t.Text)
	if len(runes) > 20 {
		return string(runes[:20])
	}
	return t.Text
}
