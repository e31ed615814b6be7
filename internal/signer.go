package internal

import (
	"crypto/subtle"
	"fmt"
	"strconv"
	"strings"

	"euplatesc/entity"

	"gitee.com/golang-module/dongle"
)

// DigestCase is the letter case of the hex signature expected by an endpoint.
type DigestCase int

const (
	LowerHex DigestCase = iota
	UpperHex
)

// Signer computes the keyed MD5 HMAC over the canonical message of a field set.
type Signer struct {
	key []byte
}

// NewSigner decodes a hex encoded secret into the raw HMAC key.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("empty secret: %w", entity.ErrInvalidKey)
	}
	decoded := dongle.Decode.FromString(secret).ByHex()
	if decoded.Error != nil {
		return nil, fmt.Errorf("decode secret: %w", entity.ErrInvalidKey)
	}
	return &Signer{key: decoded.ToBytes()}, nil
}

// CanonicalMessage serializes the field values in insertion order. Each
// value contributes its length followed by the value itself, an empty value
// contributes a single '-'.
func CanonicalMessage(fields *entity.FieldSet) string {
	var sb strings.Builder
	for _, f := range fields.Fields() {
		if len(f.Value) == 0 {
			sb.WriteByte('-')
			continue
		}
		sb.WriteString(strconv.Itoa(len(f.Value)))
		sb.WriteString(f.Value)
	}
	return sb.String()
}

func (s *Signer) Sign(fields *entity.FieldSet, digest DigestCase) string {
	hash := dongle.Encrypt.FromString(CanonicalMessage(fields)).ByHmacMd5(s.key).ToHexString()
	if digest == UpperHex {
		return strings.ToUpper(hash)
	}
	return hash
}

// Verify compares signature with a freshly computed one, byte for byte.
func (s *Signer) Verify(fields *entity.FieldSet, signature string, digest DigestCase) bool {
	expected := s.Sign(fields, digest)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
