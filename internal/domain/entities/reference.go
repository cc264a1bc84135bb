package entities

// ReferenceDocument is an entry of the reference-document browser.
type ReferenceDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
}
