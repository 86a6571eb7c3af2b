package rag

import "testing"

func TestWantsDirectFile(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{query: "please download the report", want: true},
		{query: "download", want: true},
		{query: "DOWNLOAD!", want: true},
		{query: "send me that file", want: true},
		{query: "send file", want: true},
		{query: "Send the URL please", want: true},
		{query: "share the budget file", want: true},
		{query: "get the Q4 file", want: true},
		{query: "Get-File", want: true},
		{query: "what is in the report", want: false},
		{query: "what files do we have", want: false},
		{query: "send the report to finance", want: false},
		{query: "downloads folder", want: false},
		{query: "sendfile", want: false},
		{query: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := WantsDirectFile(tt.query); got != tt.want {
				t.Errorf("WantsDirectFile(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
