package entity

// Merchant is the account description returned by check_mid.
type Merchant struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	CUI       string `json:"cui"`
	J         string `json:"j"`
	Status    string `json:"status"`
	Recurring string `json:"recuring"`
	Template  string `json:"tpl"`
	RateMode  string `json:"rate_mode"`
	RateAPB   string `json:"rate_apb"`
	RateBTRL  string `json:"rate_btrl"`
	RateBRDF  string `json:"rate_brdf"`
	RateFBR   string `json:"rate_fbr"`
	RateGBR   string `json:"rate_gbr"`
	RateRZB   string `json:"rate_rzb"`
}
