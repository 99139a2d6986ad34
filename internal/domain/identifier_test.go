package domain

import "testing"

func mustSpace(t *testing.T, bits, succListSize int) Space {
	t.Helper()
	sp, err := NewSpace(bits, succListSize)
	if err != nil {
		t.Fatalf("NewSpace(%d, %d) failed: %v", bits, succListSize, err)
	}
	return sp
}

func mustID(t *testing.T, sp Space, hex string) ID {
	t.Helper()
	id, err := sp.FromHexString(hex)
	if err != nil {
		t.Fatalf("FromHexString(%q) failed: %v", hex, err)
	}
	return id
}

func TestInRangeHalfOpenRight(t *testing.T) {
	sp := mustSpace(t, 8, 3)

	tests := []struct {
		name        string
		start, end  string
		x           string
		want        bool
	}{
		{"start==end: whole ring", "0x10", "0x10", "0xff", true},
		{"linear arc, inside", "0x10", "0x20", "0x18", true},
		{"linear arc, at end (inclusive)", "0x10", "0x20", "0x20", true},
		{"linear arc, at start (exclusive)", "0x10", "0x20", "0x10", false},
		{"linear arc, outside", "0x10", "0x20", "0x30", false},
		{"wrap arc, inside after wrap", "0xf0", "0x10", "0x05", true},
		{"wrap arc, inside before wrap", "0xf0", "0x10", "0xf8", true},
		{"wrap arc, at end (inclusive)", "0xf0", "0x10", "0x10", true},
		{"wrap arc, outside", "0xf0", "0x10", "0x50", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := mustID(t, sp, tt.start)
			end := mustID(t, sp, tt.end)
			x := mustID(t, sp, tt.x)
			if got := x.InRangeHalfOpenRight(start, end); got != tt.want {
				t.Errorf("InRangeHalfOpenRight(%s in (%s,%s]) = %v, want %v", tt.x, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestInOpenRange(t *testing.T) {
	sp := mustSpace(t, 8, 3)

	tests := []struct {
		name       string
		start, end string
		x          string
		want       bool
	}{
		{"start==end: whole ring", "0x10", "0x10", "0xff", true},
		{"linear arc, inside", "0x10", "0x20", "0x18", true},
		{"linear arc, at end (exclusive)", "0x10", "0x20", "0x20", false},
		{"linear arc, at start (exclusive)", "0x10", "0x20", "0x10", false},
		{"wrap arc, inside after wrap", "0xf0", "0x10", "0x05", true},
		{"wrap arc, at end (exclusive)", "0xf0", "0x10", "0x10", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := mustID(t, sp, tt.start)
			end := mustID(t, sp, tt.end)
			x := mustID(t, sp, tt.x)
			if got := x.InOpenRange(start, end); got != tt.want {
				t.Errorf("InOpenRange(%s in (%s,%s)) = %v, want %v", tt.x, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestAddPow2WrapsModulo(t *testing.T) {
	sp := mustSpace(t, 8, 3)

	tests := []struct {
		name    string
		self    string
		i       int
		want    string
	}{
		{"no wrap", "0x10", 2, "14"},
		{"wraps past 2^bits", "0xf0", 4, "00"},
		{"i=0 adds one", "0x00", 0, "01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			self := mustID(t, sp, tt.self)
			got, err := sp.AddPow2(self, tt.i)
			if err != nil {
				t.Fatalf("AddPow2 failed: %v", err)
			}
			if got.ToHexString(false) != tt.want {
				t.Errorf("AddPow2(%s, %d) = %s, want %s", tt.self, tt.i, got.ToHexString(false), tt.want)
			}
		})
	}
}

func TestAddPow2RejectsOutOfRangeIndex(t *testing.T) {
	sp := mustSpace(t, 8, 3)
	self := mustID(t, sp, "0x00")
	if _, err := sp.AddPow2(self, -1); err == nil {
		t.Error("expected error for negative index")
	}
	if _, err := sp.AddPow2(self, sp.Bits); err == nil {
		t.Error("expected error for index == Bits")
	}
}

func TestHexRoundTrip(t *testing.T) {
	sp := mustSpace(t, 64, 3)
	id := sp.NewIdFromString("node-a:4000")
	hex := id.ToHexString(true)

	got, err := sp.FromHexString(hex)
	if err != nil {
		t.Fatalf("FromHexString(%q) failed: %v", hex, err)
	}
	if !got.Equal(id) {
		t.Errorf("round trip mismatch: got %s, want %s", got, id)
	}
}

func TestFromHexStringRejectsOversizedValue(t *testing.T) {
	sp := mustSpace(t, 4, 3) // identifiers must fit in 4 bits
	if _, err := sp.FromHexString("0xff"); err == nil {
		t.Error("expected error for a value exceeding the identifier space")
	}
}

func TestNewIdFromStringMasksToSpace(t *testing.T) {
	sp := mustSpace(t, 4, 3)
	id := sp.NewIdFromString("arbitrary-key")
	if err := sp.IsValidID(id); err != nil {
		t.Errorf("derived id %s is not valid in a %d-bit space: %v", id, sp.Bits, err)
	}
}
