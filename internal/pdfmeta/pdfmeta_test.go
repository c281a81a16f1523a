package pdfmeta

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain doi",
			text: "available at https://doi.org/10.1016/j.compedu.2023.104684 online",
			want: "10.1016/j.compedu.2023.104684",
		},
		{
			name: "trailing punctuation stripped",
			text: "DOI: 10.1007/s11528-022-00715-y.",
			want: "10.1007/s11528-022-00715-y",
		},
		{
			name: "first valid among several",
			text: "10.1/x then 10.3102/0034654321998074 follows",
			want: "10.3102/0034654321998074",
		},
		{
			name: "no doi",
			text: "this text mentions no identifier at all",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsHeaderLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"International Journal of Educational Technology", true},
		{"Volume 12, Issue 3", true},
		{"Copyright 2023 the authors", true},
		{"Explainable AI for rural primary classrooms", false},
	}

	for _, tt := range tests {
		if got := isHeaderLine(tt.line); got != tt.want {
			t.Errorf("isHeaderLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
