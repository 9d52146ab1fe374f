package media

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

func TestMetadataToMPRIS(t *testing.T) {
	meta := Metadata{
		TrackID:  "v1",
		Title:    "A",
		Artist:   "X",
		Album:    "Singles",
		ArtURLs:  []string{"http://img/low.jpg", "http://img/high.jpg"},
		Duration: 3 * time.Minute,
	}

	m := metadataToMPRIS(meta)

	if got := m["xesam:title"].Value(); got != "A" {
		t.Errorf("Expected title A, got %v", got)
	}
	artists, ok := m["xesam:artist"].Value().([]string)
	if !ok || len(artists) != 1 || artists[0] != "X" {
		t.Errorf("Expected artist [X], got %v", m["xesam:artist"].Value())
	}
	if got := m["mpris:length"].Value(); got != int64(180_000_000) {
		t.Errorf("Expected length 180000000 microseconds, got %v", got)
	}
	// The single MPRIS art slot gets the highest-resolution thumbnail.
	if got := m["mpris:artUrl"].Value(); got != "http://img/high.jpg" {
		t.Errorf("Expected highest-resolution art URL, got %v", got)
	}
}

func TestMetadataToMPRISOmitsEmptyFields(t *testing.T) {
	m := metadataToMPRIS(Metadata{TrackID: "v2"})

	for _, key := range []string{"xesam:title", "xesam:artist", "xesam:album", "mpris:length", "mpris:artUrl"} {
		if _, present := m[key]; present {
			t.Errorf("Expected %s to be omitted for empty metadata", key)
		}
	}
	if _, present := m["mpris:trackid"]; !present {
		t.Error("Expected trackid to always be present")
	}
}

func TestTrackObjectPath(t *testing.T) {
	got := trackObjectPath("dQw4-w9_WgXcQ")
	want := dbus.ObjectPath("/com/tunetui/track/dQw4_w9_WgXcQ")
	if got != want {
		t.Errorf("trackObjectPath = %s, want %s", got, want)
	}
	if !got.IsValid() {
		t.Errorf("Expected a valid object path, got %s", got)
	}
}
