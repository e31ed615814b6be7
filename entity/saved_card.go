package entity

// SavedCard is a card stored for a buyer (c2p_cards).
type SavedCard struct {
	ID         string `json:"id"`
	MaskedCard string `json:"mask"`
	Expire     string `json:"exp"`
	CardType   string `json:"type"`
	Default    string `json:"default"`
}

// CardArt describes the card used by a transaction.
type CardArt struct {
	EpID       string `json:"epid"`
	MaskedCard string `json:"masked_card"`
	Brand      string `json:"brand"`
	Bank       string `json:"bank"`
	ImageURL   string `json:"image"`
}
