package domain

import "testing"

func TestThumbnailSelection(t *testing.T) {
	song := Song{
		Thumbnails: []Thumbnail{
			{URL: "low", Width: 120, Height: 90},
			{URL: "mid", Width: 320, Height: 180},
			{URL: "high", Width: 640, Height: 480},
		},
	}

	if got := song.SmallestThumbnail(); got == nil || got.URL != "low" {
		t.Errorf("Expected smallest thumbnail to be 'low', got %v", got)
	}
	if got := song.LargestThumbnail(); got == nil || got.URL != "high" {
		t.Errorf("Expected largest thumbnail to be 'high', got %v", got)
	}

	empty := Song{}
	if empty.SmallestThumbnail() != nil || empty.LargestThumbnail() != nil {
		t.Error("Expected nil thumbnails for song without artwork")
	}
}

func TestSameSong(t *testing.T) {
	a := &Song{VideoID: "v1"}
	b := &Song{VideoID: "v1", Name: "different metadata"}
	c := &Song{VideoID: "v2"}

	if !SameSong(a, b) {
		t.Error("Expected songs with the same video id to match")
	}
	if SameSong(a, c) {
		t.Error("Expected songs with different video ids not to match")
	}
	if SameSong(a, nil) {
		t.Error("Expected nil comparison to be false")
	}
	if !SameSong(nil, nil) {
		t.Error("Expected nil == nil")
	}
}

func TestParseDisplayDuration(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"3:00", 180},
		{"0:30", 30},
		{"1:02:03", 3723},
		{"", 0},
		{"abc", 0},
		{"3:0a", 0},
	}
	for _, c := range cases {
		if got := ParseDisplayDuration(c.in); got != c.want {
			t.Errorf("ParseDisplayDuration(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
