package body

import (
	"errors"
	"slices"
	"testing"
)

func TestBitPositions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body Body
		name string
		bit  Mask
	}{
		{Mercury, "Mercury", 0x001},
		{Venus, "Venus", 0x002},
		{Mars, "Mars", 0x004},
		{Jupiter, "Jupiter", 0x008},
		{Saturn, "Saturn", 0x010},
		{Uranus, "Uranus", 0x020},
		{Neptune, "Neptune", 0x040},
		{Pluto, "Pluto", 0x080},
		{Moon, "Moon", 0x100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.body.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.body.Bit(); got != tt.bit {
				t.Errorf("Bit() = %#x, want %#x", got, tt.bit)
			}
		})
	}
}

func TestDescribe_VenusAndMoon(t *testing.T) {
	t.Parallel()

	got := Encode(Venus, Moon).Names()
	want := []string{"Venus", "Moon"}
	if !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestDescribe_InvertsEncodeForAllSubsets(t *testing.T) {
	t.Parallel()

	for subset := range 1 << Count {
		var want []Body
		for b := Body(0); b < Count; b++ {
			if subset&(1<<b) != 0 {
				want = append(want, b)
			}
		}

		m := Encode(want...)
		if m != Mask(subset) {
			t.Fatalf("Encode(%v) = %#x, want %#x", want, m, subset)
		}
		if got := m.Bodies(); !slices.Equal(got, want) {
			t.Fatalf("Describe(%#x) = %v, want %v", m, got, want)
		}
	}
}

func TestDescribe_IgnoresHighBits(t *testing.T) {
	t.Parallel()

	m := Mask(0xFE00) | Mercury.Bit()
	if got := m.Names(); !slices.Equal(got, []string{"Mercury"}) {
		t.Errorf("Names() = %v, want [Mercury]", got)
	}
}

func TestDescribe_Restartable(t *testing.T) {
	t.Parallel()

	seq := Describe(Encode(Mars, Pluto))
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second pass = %v, first pass = %v", second, first)
	}
}

func TestDescribe_EarlyStop(t *testing.T) {
	t.Parallel()

	var seen []Body
	for b := range Describe(Full) {
		seen = append(seen, b)
		if b == Venus {
			break
		}
	}
	if !slices.Equal(seen, []Body{Mercury, Venus}) {
		t.Errorf("seen = %v, want [Mercury Venus]", seen)
	}
}

func TestMaskString(t *testing.T) {
	t.Parallel()

	if got := Mask(0).String(); got != "none" {
		t.Errorf("empty mask String() = %q, want %q", got, "none")
	}
	if got := Encode(Mercury, Saturn).String(); got != "Mercury, Saturn" {
		t.Errorf("String() = %q, want %q", got, "Mercury, Saturn")
	}
}

func TestEncode_SkipsInvalid(t *testing.T) {
	t.Parallel()

	if got := Encode(Body(9), Body(200), Mars); got != Mars.Bit() {
		t.Errorf("Encode = %#x, want %#x", got, Mars.Bit())
	}
	if Body(9).Valid() {
		t.Error("Body(9).Valid() = true, want false")
	}
	if got := Body(12).String(); got != "Body(12)" {
		t.Errorf("String() = %q, want %q", got, "Body(12)")
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Body
		wantErr bool
	}{
		{"Mercury", Mercury, false},
		{"moon", Moon, false},
		{"  NEPTUNE ", Neptune, false},
		{"Sun", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownBody) {
					t.Fatalf("Parse(%q) error = %v, want ErrUnknownBody", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAll(t *testing.T) {
	t.Parallel()

	all := All()
	if len(all) != Count {
		t.Fatalf("len(All()) = %d, want %d", len(all), Count)
	}
	if Encode(all...) != Full {
		t.Errorf("Encode(All()...) = %#x, want %#x", Encode(all...), Full)
	}
}
