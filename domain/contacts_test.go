package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPhoneList_Unmarshal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected PhoneList
		wantErr  bool
	}{
		{name: "string list", raw: `["555-0100", " 555-0101 "]`, expected: PhoneList{"555-0100", "555-0101"}},
		{name: "object list", raw: `[{"number":"555-0100"},{"number":""}]`, expected: PhoneList{"555-0100"}},
		{name: "mixed list", raw: `["555-0100",{"number":"555-0101"}]`, expected: PhoneList{"555-0100", "555-0101"}},
		{name: "comma string", raw: `"555-0100, 555-0101,,"`, expected: PhoneList{"555-0100", "555-0101"}},
		{name: "null", raw: `null`, expected: nil},
		{name: "number is rejected", raw: `[42]`, wantErr: true},
		{name: "object is rejected", raw: `{"number":"1"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got PhoneList
			err := json.Unmarshal([]byte(tt.raw), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(tt.expected, got) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNormalizeContacts_MergesLegacyField(t *testing.T) {
	var in []ContactPayload
	raw := `[{"name":" Ann ","phoneNumbers":"1, 2","numbers":[{"number":"3"}]}]`
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatal(err)
	}

	got := NormalizeContacts(in)
	expected := []Contact{{Name: "Ann", PhoneNumbers: []string{"1", "2", "3"}}}
	if !reflect.DeepEqual(expected, got) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}
