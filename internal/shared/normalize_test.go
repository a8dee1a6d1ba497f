package shared

import "testing"

func TestFoldForSearch(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Pérez  ", "perez"},
		{"GONZÁLEZ Muñoz", "gonzalez munoz"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FoldForSearch(tc.in); got != tc.want {
			t.Errorf("FoldForSearch(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatRUT(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12345678K", "12.345.678-K"},
		{"12.345.678-k", "12.345.678-K"},
		{"1234567", "123.456-7"},
		{"not-a-rut", "not-a-rut"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FormatRUT(tc.in); got != tc.want {
			t.Errorf("FormatRUT(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
