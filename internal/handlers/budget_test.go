package handlers

import "testing"

// TestParseMonthToken проверяет разбор месяца из URL: номер или английское
// название.
func TestParseMonthToken(t *testing.T) {
	cases := []struct {
		token string
		want  int
		ok    bool
	}{
		{"1", 1, true},
		{"12", 12, true},
		{"0", 0, false},
		{"13", 0, false},
		{"june", 6, true},
		{"June", 6, true},
		{"JANUARY", 1, true},
		{" december ", 12, true},
		{"juin", 0, false},
		{"", 0, false},
		{"6.5", 0, false},
	}

	for _, tc := range cases {
		got, ok := parseMonthToken(tc.token)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%q: expected (%d, %v), got (%d, %v)", tc.token, tc.want, tc.ok, got, ok)
		}
	}
}
