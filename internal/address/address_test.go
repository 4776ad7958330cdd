package address

import (
	"encoding/json"
	"strings"
	"testing"
)

const hexA = "0101010101010101010101010101010101010101010101010101010101010101"

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"plain", hexA, false},
		{"0x prefix", "0x" + hexA, false},
		{"whitespace", "  " + hexA + "\n", false},
		{"uppercase", strings.ToUpper(hexA), false},
		{"too short", hexA[:62], true},
		{"too long", hexA + "01", true},
		{"not hex", strings.Repeat("zz", Size), true},
		{"empty", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Parse(tc.in)
			if tc.wantErr {
				if err != ErrInvalidAddress {
					t.Fatalf("Parse(%q) err = %v, want ErrInvalidAddress", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.in, err)
			}
			if a.String() != hexA {
				t.Errorf("String() = %q, want %q", a.String(), hexA)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	b := strings.Repeat("02", Size)
	list, err := ParseList(hexA + ", ," + b)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(list) != 2 || list[0] != MustParse(hexA) || list[1] != MustParse(b) {
		t.Errorf("ParseList = %v", list)
	}
	if _, err := ParseList(hexA + ",nope"); err == nil {
		t.Error("ParseList with bad entry should fail")
	}
	empty, err := ParseList("")
	if err != nil || len(empty) != 0 {
		t.Errorf("ParseList(\"\") = %v, %v", empty, err)
	}
}

func TestAddress_JSON(t *testing.T) {
	type wrapper struct {
		Owner Address `json:"owner"`
	}
	in := wrapper{Owner: MustParse(hexA)}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(raw), hexA) {
		t.Errorf("json = %s, want hex owner", raw)
	}
	var out wrapper
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Owner != in.Owner {
		t.Errorf("round trip = %v, want %v", out.Owner, in.Owner)
	}
	if err := json.Unmarshal([]byte(`{"owner":"bad"}`), &out); err == nil {
		t.Error("Unmarshal of bad address should fail")
	}
}

func TestZeroAndContains(t *testing.T) {
	if !Zero.IsZero() {
		t.Error("Zero.IsZero() = false")
	}
	a := MustParse(hexA)
	if a.IsZero() {
		t.Error("non-zero address reported zero")
	}
	if !Contains([]Address{Zero, a}, a) || Contains(nil, a) {
		t.Error("Contains mismatch")
	}
	if _, err := FromBytes(make([]byte, 31)); err != ErrInvalidAddress {
		t.Errorf("FromBytes short: %v", err)
	}
}
