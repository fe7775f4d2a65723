package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PhoneList is a normalized list of phone numbers. It decodes from a JSON
// array of strings, an array of {"number": "..."} objects as address books
// export them, or a single comma-delimited string. Entries are trimmed and
// blanks dropped.
type PhoneList []string

func (p *PhoneList) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" {
		*p = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = SplitPhoneNumbers(s)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("phone numbers: expected string or list: %w", err)
	}
	out := make(PhoneList, 0, len(items))
	for _, raw := range items {
		var n string
		if err := json.Unmarshal(raw, &n); err != nil {
			var obj struct {
				Number string `json:"number"`
			}
			if err := json.Unmarshal(raw, &obj); err != nil {
				return fmt.Errorf("phone numbers: unexpected entry %s", raw)
			}
			n = obj.Number
		}
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	*p = out
	return nil
}

// SplitPhoneNumbers splits a comma-delimited list
func SplitPhoneNumbers(s string) PhoneList {
	var out PhoneList
	for _, part := range strings.Split(s, ",") {
		if n := strings.TrimSpace(part); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ContactPayload is the wire shape of a contact. Older clients send the
// numbers under "numbers".
type ContactPayload struct {
	Name         string    `json:"name"`
	PhoneNumbers PhoneList `json:"phoneNumbers"`
	Numbers      PhoneList `json:"numbers,omitempty"`
}

// Contact merges both number fields into a Contact
func (c ContactPayload) Contact() Contact {
	numbers := make([]string, 0, len(c.PhoneNumbers)+len(c.Numbers))
	numbers = append(numbers, c.PhoneNumbers...)
	numbers = append(numbers, c.Numbers...)
	return Contact{Name: strings.TrimSpace(c.Name), PhoneNumbers: numbers}
}

// NormalizeContacts converts wire contacts into their stored form
func NormalizeContacts(in []ContactPayload) []Contact {
	out := make([]Contact, 0, len(in))
	for _, c := range in {
		out = append(out, c.Contact())
	}
	return out
}
