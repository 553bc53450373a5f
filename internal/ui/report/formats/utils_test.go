package formats

import "testing"

func TestTSVField(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a\tb", `a\tb`},
		{"line\nbreak", `line\nbreak`},
		{`back\slash`, `back\\slash`},
	}
	for _, tc := range cases {
		if got := tsvField(tc.in); got != tc.want {
			t.Errorf("tsvField(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
