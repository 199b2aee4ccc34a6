package rp

import (
	"encoding/json"
	"sort"
	"strings"
)

const (
	attributesSeparator = ";"
	keyValueSeparator   = ":"
)

// ItemAttribute is a key/value tag attached to a launch or test item.
// An empty Key means the attribute is a bare value.
type ItemAttribute struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// AttributeSet is a set of attributes. Identical key/value pairs collapse.
type AttributeSet map[ItemAttribute]struct{}

// Add inserts a into the set.
func (s AttributeSet) Add(a ItemAttribute) { s[a] = struct{}{} }

// Contains reports whether a is in the set.
func (s AttributeSet) Contains(a ItemAttribute) bool {
	_, ok := s[a]
	return ok
}

// Sorted returns the attributes ordered by key, then value.
func (s AttributeSet) Sorted() []ItemAttribute {
	out := make([]ItemAttribute, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// MarshalJSON serializes the set as an array with a stable order.
func (s AttributeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON reads an attribute array back into a set.
func (s *AttributeSet) UnmarshalJSON(data []byte) error {
	var list []ItemAttribute
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	set := make(AttributeSet, len(list))
	for _, a := range list {
		set.Add(a)
	}
	*s = set
	return nil
}

// ParseAttributes parses a raw attribute string of the form
// "build:4r3wf234;attributeKey:attributeValue;attributeValue2".
// Segments that do not parse are dropped silently.
func ParseAttributes(raw string) AttributeSet {
	set := AttributeSet{}
	for _, segment := range strings.Split(strings.TrimSpace(raw), attributesSeparator) {
		if a, ok := SplitKeyValue(segment); ok {
			set.Add(a)
		}
	}
	return set
}

// ParseAttributesPtr is ParseAttributes for an optional string; nil yields an
// empty set.
func ParseAttributesPtr(raw *string) AttributeSet {
	if raw == nil {
		return AttributeSet{}
	}
	return ParseAttributes(*raw)
}

// SplitKeyValue parses one attribute such as "key:value", " :value" or "tag".
//
// The segment is split on every ':' and empty parts are kept, so "a:b:c"
// and "a:b:" yield three parts and are rejected rather than truncated.
// An attribute with an empty value is rejected too: "key:" does not become
// the bare value "key". Existing attribute strings depend on both rules.
func SplitKeyValue(segment string) (ItemAttribute, bool) {
	if strings.TrimSpace(segment) == "" {
		return ItemAttribute{}, false
	}
	parts := strings.Split(segment, keyValueSeparator)
	var a ItemAttribute
	switch len(parts) {
	case 1:
		a = ItemAttribute{Value: strings.TrimSpace(parts[0])}
	case 2:
		a = ItemAttribute{
			Key:   strings.TrimSpace(parts[0]),
			Value: strings.TrimSpace(parts[1]),
		}
	default:
		return ItemAttribute{}, false
	}
	if a.Value == "" {
		return ItemAttribute{}, false
	}
	return a, true
}
