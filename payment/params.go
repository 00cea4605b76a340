package payment

import (
	"sort"
	"strings"
)

// Param is a single gateway parameter. The gateway signs and verifies over
// an ordered sequence of pairs, never over a Go map, so two independent
// computations of the same set serialize byte-identically.
type Param struct {
	Key   string
	Value string
}

type Params []Param

// Validate rejects parameter sets the gateway contract does not allow:
// every key must be present and every value non-empty.
func (p Params) Validate() error {
	for _, param := range p {
		if param.Key == "" {
			return errValidation("parameter with empty key")
		}
		if param.Value == "" {
			return errValidation("parameter %s has no value", param.Key)
		}
	}
	return nil
}

// Sorted returns a copy ordered ascending by byte-wise key comparison.
func (p Params) Sorted() Params {
	sorted := make(Params, len(p))
	copy(sorted, p)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}

// HashData serializes the set as key1=value1&key2=value2 with raw values.
// URL-encoding happens later, when the redirect query string is assembled;
// the signature always covers the raw form.
func (p Params) HashData() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(param.Key)
		b.WriteByte('=')
		b.WriteString(param.Value)
	}
	return b.String()
}

// Get returns the value for key and whether it is present.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}
