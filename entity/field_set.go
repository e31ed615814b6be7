// Package entity defines data models for the EuPlatesc payment client.
package entity

import (
	"net/url"
	"strings"
)

// Field is a single named value of a FieldSet.
type Field struct {
	Key   string
	Value string
}

// FieldSet is an ordered list of request fields.
// The order of the fields is part of the signature: two sets holding the same
// pairs in a different order produce different signatures.
type FieldSet struct {
	fields []Field
}

func NewFieldSet(fields ...Field) *FieldSet {
	fs := &FieldSet{}
	for _, f := range fields {
		fs.Add(f.Key, f.Value)
	}
	return fs
}

// Add appends a field. If the key is already present its value is replaced
// and the field keeps its original position.
func (fs *FieldSet) Add(key, value string) *FieldSet {
	for i := range fs.fields {
		if fs.fields[i].Key == key {
			fs.fields[i].Value = value
			return fs
		}
	}
	fs.fields = append(fs.fields, Field{Key: key, Value: value})
	return fs
}

// AddOptional appends the field only when value is not empty.
func (fs *FieldSet) AddOptional(key, value string) *FieldSet {
	if value == "" {
		return fs
	}
	return fs.Add(key, value)
}

func (fs *FieldSet) Get(key string) (string, bool) {
	for _, f := range fs.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (fs *FieldSet) Has(key string) bool {
	_, ok := fs.Get(key)
	return ok
}

func (fs *FieldSet) Len() int {
	return len(fs.fields)
}

// Fields returns a copy of the fields in insertion order.
func (fs *FieldSet) Fields() []Field {
	out := make([]Field, len(fs.fields))
	copy(out, fs.fields)
	return out
}

func (fs *FieldSet) Keys() []string {
	keys := make([]string, 0, len(fs.fields))
	for _, f := range fs.fields {
		keys = append(keys, f.Key)
	}
	return keys
}

func (fs *FieldSet) Clone() *FieldSet {
	return &FieldSet{fields: fs.Fields()}
}

// Encode renders the set as an application/x-www-form-urlencoded string,
// keeping insertion order (url.Values.Encode would sort the keys).
func (fs *FieldSet) Encode() string {
	var sb strings.Builder
	for i, f := range fs.fields {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(f.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(f.Value))
	}
	return sb.String()
}

// Values converts the set to url.Values. Ordering is lost.
func (fs *FieldSet) Values() url.Values {
	values := make(url.Values, len(fs.fields))
	for _, f := range fs.fields {
		values.Set(f.Key, f.Value)
	}
	return values
}

// SignedRequest is a field set together with its signature and the fields
// that travel with the request without being covered by the signature.
type SignedRequest struct {
	Signed       *FieldSet
	SignatureKey string
	Signature    string
	Unsigned     *FieldSet
}

// Wire returns every field in the order it is sent: signed fields, the
// signature, then the unsigned fields.
func (r *SignedRequest) Wire() *FieldSet {
	out := r.Signed.Clone()
	out.Add(r.SignatureKey, r.Signature)
	if r.Unsigned != nil {
		for _, f := range r.Unsigned.fields {
			out.Add(f.Key, f.Value)
		}
	}
	return out
}
