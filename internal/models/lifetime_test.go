package models

import (
	"testing"
	"time"
)

func TestParseLifetime(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"PT1H", time.Hour, false},
		{"PT30M", 30 * time.Minute, false},
		{"PT90S", 90 * time.Second, false},
		{"P1D", 24 * time.Hour, false},
		{"P1W", 7 * 24 * time.Hour, false},
		{"P1M", 30 * 24 * time.Hour, false},
		{"P1Y", 365 * 24 * time.Hour, false},
		{"P1DT12H30M", 36*time.Hour + 30*time.Minute, false},
		{"PT0S", 0, true},
		{"P", 0, true},
		{"", 0, true},
		{"1H", 0, true},
		{"PT1X", 0, true},
		{"PTT1H", 0, true},
		{"PT1", 0, true},
		{"1 hour", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLifetime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLifetime(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLifetime(%q) failed: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseLifetime(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPostExpiryHelpers(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name     string
		post     Post
		expired  bool
		story    bool
		listable bool
	}{
		{
			name:     "complete no lifetime",
			post:     Post{Status: PostStatusComplete},
			listable: true,
		},
		{
			name:     "complete unexpired lifetime",
			post:     Post{Status: PostStatusComplete, ExpiresAt: &future},
			story:    true,
			listable: true,
		},
		{
			name:    "complete expired",
			post:    Post{Status: PostStatusComplete, ExpiresAt: &past},
			expired: true,
		},
		{
			name: "pending with lifetime",
			post: Post{Status: PostStatusPending, ExpiresAt: &future},
		},
		{
			name: "deleting",
			post: Post{Status: PostStatusDeleting},
		},
		{
			name:    "deadline is exclusive",
			post:    Post{Status: PostStatusComplete, ExpiresAt: &now},
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.Expired(now); got != tt.expired {
				t.Errorf("Expired = %v, want %v", got, tt.expired)
			}
			if got := tt.post.IsStory(now); got != tt.story {
				t.Errorf("IsStory = %v, want %v", got, tt.story)
			}
			if got := tt.post.Listable(now); got != tt.listable {
				t.Errorf("Listable = %v, want %v", got, tt.listable)
			}
		})
	}
}
