package service

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "dashed 10 digits",
			raw:  "555-987-1234",
			want: "(555) 987-1234",
		},
		{
			name: "bare 10 digits",
			raw:  "5559871234",
			want: "(555) 987-1234",
		},
		{
			name: "dots and spaces",
			raw:  "555.987 1234",
			want: "(555) 987-1234",
		},
		{
			name: "11 digits preserved verbatim",
			raw:  "+1 555 987 1234",
			want: "+1 555 987 1234",
		},
		{
			name: "too short preserved verbatim",
			raw:  "987-1234",
			want: "987-1234",
		},
		{
			name: "empty produces no normalized value",
			raw:  "",
			want: "",
		},
		{
			name: "letters only preserved verbatim",
			raw:  "call me",
			want: "call me",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePhone(tt.raw); got != tt.want {
				t.Errorf("normalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
