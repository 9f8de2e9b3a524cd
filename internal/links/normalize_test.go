package links

import "testing"

func TestNormalize(t *testing.T) {
	const base = "https://resume.example.com/view/42"

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"https passthrough", "https://example.com", "https://example.com"},
		{"http passthrough", "http://example.com/a?b=c", "http://example.com/a?b=c"},
		{"scheme case insensitive", "HTTPS://Example.COM", "HTTPS://Example.COM"},
		{"mailto passthrough", "mailto:a@b.com", "mailto:a@b.com"},
		{"tel passthrough", "tel:+8613800138000", "tel:+8613800138000"},
		{"anchor", "#projects", base + "#projects"},
		{"email", "jane@example.com", "mailto:jane@example.com"},
		{"email beats bare domain", "first.last@example.co.uk", "mailto:first.last@example.co.uk"},
		{"phone with punctuation", "+1 (555) 123-4567", "tel:+15551234567"},
		{"phone digits only", "13800138000", "tel:13800138000"},
		{"bare domain", "example.com", "https://example.com"},
		{"domain with path", "github.com/octocat", "https://github.com/octocat"},
		{"free text fallback", "my portfolio", "https://my portfolio"},
		{"trims surrounding space", "  example.com  ", "https://example.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in, base)
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeAnchorStripsBaseFragment(t *testing.T) {
	got := Normalize("#skills", "https://resume.example.com/view/42#top")
	want := "https://resume.example.com/view/42#skills"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// 输出再次输入必须保持不变，否则重复导出会层层加前缀。
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"example.com",
		"jane@example.com",
		"+1 555 123 4567",
		"#projects",
		"https://example.com",
	}
	const base = "https://resume.example.com/view/1"

	for _, in := range inputs {
		once := Normalize(in, base)
		twice := Normalize(once, base)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
