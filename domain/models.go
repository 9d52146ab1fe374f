package domain

import "strings"

// Thumbnail is one artwork variant for a song. Thumbnail lists are ordered
// lowest to highest resolution.
type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

// Song represents a searchable, playable track returned by the backend.
// Immutable once deserialized; held by reference while playing.
type Song struct {
	Name       string
	Artist     string
	VideoID    string
	Thumbnails []Thumbnail
	Duration   string // display duration, e.g. "3:04"
	Album      string
}

// SmallestThumbnail returns the lowest-resolution variant, or nil.
func (s *Song) SmallestThumbnail() *Thumbnail {
	if len(s.Thumbnails) == 0 {
		return nil
	}
	return &s.Thumbnails[0]
}

// LargestThumbnail returns the highest-resolution variant, or nil.
func (s *Song) LargestThumbnail() *Thumbnail {
	if len(s.Thumbnails) == 0 {
		return nil
	}
	return &s.Thumbnails[len(s.Thumbnails)-1]
}

// DisplayTitle is "Artist - Name", falling back to whichever side exists.
func (s *Song) DisplayTitle() string {
	switch {
	case s.Artist != "" && s.Name != "":
		return s.Artist + " - " + s.Name
	case s.Name != "":
		return s.Name
	default:
		return s.Artist
	}
}

// SameSong reports whether two songs refer to the same backend track.
func SameSong(a, b *Song) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.VideoID == b.VideoID
}

// PlayerState is a snapshot of playback state. The controller publishes a
// fresh copy on every transition; screens only ever read them.
type PlayerState struct {
	CurrentSong *Song
	IsPlaying   bool
	Position    float64 // seconds
	Duration    float64 // seconds
	IsLoading   bool
}

// ParseDisplayDuration converts "M:SS" or "H:MM:SS" into seconds.
// Returns 0 for anything it cannot parse; display durations are cosmetic.
func ParseDisplayDuration(d string) float64 {
	parts := strings.Split(strings.TrimSpace(d), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0
	}
	total := 0
	for _, p := range parts {
		if p == "" {
			return 0
		}
		n := 0
		for _, r := range p {
			if r < '0' || r > '9' {
				return 0
			}
			n = n*10 + int(r-'0')
		}
		total = total*60 + n
	}
	return float64(total)
}
