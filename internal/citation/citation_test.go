package citation

import (
	"testing"

	"github.com/hekang/thesis-tools/internal/literature"
)

func TestTypeMarker(t *testing.T) {
	tests := []struct {
		itemType string
		want     string
	}{
		{"journalArticle", "[J]"},
		{"thesis", "[D]"},
		{"conferencePaper", "[C]"},
		{"book", "[M]"},
		{"webpage", "[J]"},
		{"", "[J]"},
	}

	for _, tt := range tests {
		if got := TypeMarker(tt.itemType); got != tt.want {
			t.Errorf("TypeMarker(%q) = %q, want %q", tt.itemType, got, tt.want)
		}
	}
}

func TestBuildAuthorString(t *testing.T) {
	four := []literature.Creator{
		{Name: "张三"}, {Name: "李四"}, {Name: "王五"}, {Name: "赵六"},
	}
	fourEN := []literature.Creator{
		{LastName: "Smith", FirstName: "J"},
		{LastName: "Lee", FirstName: "K"},
		{LastName: "Chan", FirstName: "M"},
		{LastName: "Park", FirstName: "S"},
	}

	tests := []struct {
		name     string
		creators []literature.Creator
		foreign  bool
		want     string
	}{
		{"none", nil, false, ""},
		{"single domestic", []literature.Creator{{Name: "张三"}}, false, "张三"},
		{"two domestic", four[:2], false, "张三，李四"},
		{"four domestic truncated", four, false, "张三，李四，王五 等"},
		{"two foreign", fourEN[:2], true, "Smith J, Lee K"},
		{"four foreign truncated", fourEN, true, "Smith J, Lee K, Chan M et al."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildAuthorString(tt.creators, tt.foreign); got != tt.want {
				t.Errorf("BuildAuthorString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatReference(t *testing.T) {
	tests := []struct {
		name  string
		item  literature.Item
		index int
		want  string
	}{
		{
			name: "foreign journal full",
			item: literature.Item{
				Title: "Explainable AI in Primary Education",
				Creators: []literature.Creator{
					{LastName: "Smith", FirstName: "J"},
					{LastName: "Lee", FirstName: "K"},
				},
				PublicationTitle: "Computers & Education",
				ItemType:         "journalArticle",
				Volume:           "12",
				Issue:            "3",
				Pages:            "45-67",
				Year:             2023,
				Foreign:          true,
			},
			index: 3,
			want:  "[3] Smith J, Lee K. Explainable AI in Primary Education [J]. Computers & Education, 2023, 12(3): 45-67.",
		},
		{
			name: "domestic journal full",
			item: literature.Item{
				Title:            "人工智能赋能乡村小学语文教学的路径研究",
				Creators:         []literature.Creator{{Name: "张三"}, {Name: "李四"}},
				PublicationTitle: "电化教育研究",
				ItemType:         "journalArticle",
				Volume:           "44",
				Issue:            "5",
				Pages:            "12-19",
				Year:             2024,
			},
			index: 1,
			want:  "[1] 张三，李四. 人工智能赋能乡村小学语文教学的路径研究[J]. 电化教育研究, 2024, 44(5): 12-19.",
		},
		{
			name: "thesis without volume",
			item: literature.Item{
				Title:     "乡村教师信息素养发展研究",
				Creators:  []literature.Creator{{Name: "王五"}},
				ItemType:  "thesis",
				Publisher: "某大学",
				Year:      2022,
			},
			index: 7,
			want:  "[7] 王五. 乡村教师信息素养发展研究[D]. 2022.",
		},
		{
			name: "missing year and pages",
			item: literature.Item{
				Title:            "某研究",
				Creators:         []literature.Creator{{Name: "赵六"}},
				ItemType:         "journalArticle",
				PublicationTitle: "某期刊",
			},
			index: 2,
			want:  "[2] 赵六. 某研究[J]. 某期刊.",
		},
		{
			name: "pages only no volume",
			item: literature.Item{
				Title:            "Rural Schooling",
				Creators:         []literature.Creator{{Name: "Doe A"}},
				ItemType:         "journalArticle",
				PublicationTitle: "Ed Review",
				Pages:            "101-110",
				Year:             2021,
				Foreign:          true,
			},
			index: 5,
			want:  "[5] Doe A. Rural Schooling [J]. Ed Review, 2021, 101-110.",
		},
		{
			name:  "no metadata at all",
			item:  literature.Item{Title: "孤立标题"},
			index: 9,
			want:  "[9] 孤立标题[J].",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatReference(tt.item, tt.index)
			if got != tt.want {
				t.Errorf("FormatReference() = %q, want %q", got, tt.want)
			}
			// Pure function: same inputs, same output.
			if again := FormatReference(tt.item, tt.index); again != got {
				t.Errorf("FormatReference() not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestAppendCitationSuffix(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		indices []int
		want    string
	}{
		{
			name:    "plain sentence",
			base:    "已有研究表明该方法有效",
			indices: []int{3, 1},
			want:    "已有研究表明该方法有效[1][3]",
		},
		{
			name:    "insert before full stop",
			base:    "已有研究表明该方法有效。",
			indices: []int{2},
			want:    "已有研究表明该方法有效[2]。",
		},
		{
			name:    "replaces existing markers",
			base:    "已有研究表明该方法有效[5][9]。",
			indices: []int{1, 4},
			want:    "已有研究表明该方法有效[1][4]。",
		},
		{
			name:    "dedupes indices",
			base:    "相关工作较多",
			indices: []int{2, 2, 7, 2},
			want:    "相关工作较多[2][7]",
		},
		{
			name:    "empty indices unchanged",
			base:    "原文保持不变[3]。",
			indices: nil,
			want:    "原文保持不变[3]。",
		},
		{
			name:    "interior brackets untouched",
			base:    "文献[3]提出的模型被广泛引用。",
			indices: []int{8},
			want:    "文献[3]提出的模型被广泛引用[8]。",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendCitationSuffix(tt.base, tt.indices)
			if got != tt.want {
				t.Errorf("AppendCitationSuffix(%q, %v) = %q, want %q",
					tt.base, tt.indices, got, tt.want)
			}
			// Applying the same indices again must be a no-op.
			if again := AppendCitationSuffix(got, tt.indices); again != got {
				t.Errorf("not idempotent: %q then %q", got, again)
			}
		})
	}
}
