package search

import "testing"

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		title   string
		content string
		want    float64
	}{
		{name: "no match", query: "milk", title: "Shopping", content: "Buy eggs", want: 0},
		{name: "one content hit", query: "milk", title: "Shopping", content: "Buy milk", want: 0.5},
		{name: "case insensitive", query: "MILK", title: "Shopping", content: "Buy Milk", want: 0.5},
		{name: "title counts double", query: "milk", title: "Milk run", content: "", want: 2.0 / 3.0},
		{name: "title and content", query: "milk", title: "Milk", content: "milk, more milk", want: 4.0 / 5.0},
		{name: "unicode folding", query: "ÇA", title: "", content: "ça va", want: 0.5},
		{name: "empty query", query: "", title: "a", content: "b", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeywordScore(tt.query, tt.title, tt.content); got != tt.want {
				t.Errorf("KeywordScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeKeyword},
		{in: "keyword", want: ModeKeyword},
		{in: "semantic", want: ModeSemantic},
		{in: "hybrid", want: ModeHybrid},
		{in: "fuzzy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
