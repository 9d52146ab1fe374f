package ui

// coverCache holds the rendered ASCII art and which song it belongs to.
// The UI goroutine owns it exclusively: every access happens inside a
// queued update closure, so no locking is needed.
type coverCache struct {
	art     string
	forID   string
	loading string
}

// needsLoad reports whether a fetch should start for the song id.
func (c *coverCache) needsLoad(id string) bool {
	return id != "" && c.forID != id && c.loading != id
}

// beginLoad marks a fetch in flight so renders during the download do not
// start duplicates.
func (c *coverCache) beginLoad(id string) {
	c.loading = id
}

// store records the rendered art for the song id.
func (c *coverCache) store(id, art string) {
	if c.loading == id {
		c.loading = ""
	}
	c.art = art
	c.forID = id
}

// get returns the cached art if it belongs to the song id.
func (c *coverCache) get(id string) (string, bool) {
	if id != "" && c.forID == id && c.art != "" {
		return c.art, true
	}
	return "", false
}
