package entity

// Well-known sandbox account published by the gateway. Test mode signs and
// identifies every request with it.
const (
	TestMerchantID = "testaccount"
	TestSecretKey  = "00112233445566778899AABBCCDDEEFF"
)

// Credentials is the account bundle the client is built with. It does not
// change for the life of a client.
type Credentials struct {
	MerchantID string
	// SecretKey is the merchant key as a hex string.
	SecretKey string
	// UserKey and UserAPIKey are only needed by account-management operations.
	UserKey    string
	UserAPIKey string
	TestMode   bool
}

// Merchant returns the merchant id sent to the gateway.
func (c Credentials) Merchant() string {
	if c.TestMode {
		return TestMerchantID
	}
	return c.MerchantID
}

func (c Credentials) HasUserCredentials() bool {
	return c.UserKey != "" && c.UserAPIKey != ""
}
