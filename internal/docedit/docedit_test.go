package docedit

import "testing"

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"开题报告.docx", "开题报告（AI）.docx"},
		{"/tmp/proposal.docx", "/tmp/proposal（AI）.docx"},
		{"noext", "noext（AI）"},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.in); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputPathNeverInPlace(t *testing.T) {
	in := "文档.docx"
	if OutputPath(in) == in {
		t.Error("output path must differ from the source path")
	}
}

func TestPickEntryStyle(t *testing.T) {
	tests := []struct {
		name         string
		entryStyle   string
		headingStyle string
		want         string
	}{
		{"entry style wins", "ListParagraph", "Heading2", "ListParagraph"},
		{"falls back to heading style", "", "Heading2", "Heading2"},
		{"both empty gives default", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickEntryStyle(tt.entryStyle, tt.headingStyle); got != tt.want {
				t.Errorf("pickEntryStyle(%q, %q) = %q, want %q",
					tt.entryStyle, tt.headingStyle, got, tt.want)
			}
		})
	}
}
