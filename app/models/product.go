package models

// Product is a catalogue entry. The catalogue is fixed at startup; prices
// are in BGN.
type Product struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}
