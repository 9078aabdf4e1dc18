package fonts

import (
	"bytes"
	"slices"
	"testing"
)

func TestSansTTF(t *testing.T) {
	data := SansTTF()
	// TrueType outlines start with version 1.0.
	if !bytes.HasPrefix(data, []byte{0x00, 0x01, 0x00, 0x00}) {
		t.Fatalf("embedded font is not a TrueType file (%d bytes)", len(data))
	}
}

func TestMissing(t *testing.T) {
	tests := []struct {
		text string
		want []rune
	}{
		{"Pump [0]", nil},
		{"Étape ß €", nil},
		{"Ventil Ω", nil},
		{"Насос 2", nil},
		{"设备", []rune{'设', '备'}},
		{"Ω-设 设备", []rune{'设', '备'}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Missing(tt.text); !slices.Equal(got, tt.want) {
				t.Errorf("Missing(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
