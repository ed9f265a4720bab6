package drift

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf16"
)

// Album describes one cover shown on the canvas.
type Album struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Description string  `json:"description"`
	ImageURL    ImageID `json:"imageUrl"`
}

// defaultArtist is credited on albums synthesized for unknown covers.
const defaultArtist = "RFD"

// Catalog is an ordered album list with lookup by cover id.
type Catalog struct {
	albums []Album
	byURL  map[ImageID]int
}

// NewCatalog builds a catalog from albums in order. Later duplicates of an
// image URL are ignored.
func NewCatalog(albums []Album) *Catalog {
	c := &Catalog{byURL: make(map[ImageID]int, len(albums))}
	for _, a := range albums {
		if _, dup := c.byURL[a.ImageURL]; dup {
			continue
		}
		c.byURL[a.ImageURL] = len(c.albums)
		c.albums = append(c.albums, a)
	}
	return c
}

// LoadCatalog parses a JSON array of albums.
func LoadCatalog(jsonData []byte) (*Catalog, error) {
	var albums []Album
	if err := json.Unmarshal(jsonData, &albums); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, a := range albums {
		if a.ImageURL == "" {
			return nil, fmt.Errorf("parse catalog: album %d has no imageUrl", i)
		}
	}
	return NewCatalog(albums), nil
}

// Len returns the number of albums.
func (c *Catalog) Len() int { return len(c.albums) }

// Albums returns the albums in order. The returned slice MUST NOT be mutated.
func (c *Catalog) Albums() []Album { return c.albums }

// Roster returns the cover ids in catalog order, suitable for AssignCover.
func (c *Catalog) Roster() []ImageID {
	ids := make([]ImageID, len(c.albums))
	for i, a := range c.albums {
		ids[i] = a.ImageURL
	}
	return ids
}

// Index returns the position of the album with the given cover, or -1.
func (c *Catalog) Index(url ImageID) int {
	if i, ok := c.byURL[url]; ok {
		return i
	}
	return -1
}

// ByIndex returns the album at i.
func (c *Catalog) ByIndex(i int) (Album, bool) {
	if i < 0 || i >= len(c.albums) {
		return Album{}, false
	}
	return c.albums[i], true
}

// Next returns the index after i, wrapping to the start.
func (c *Catalog) Next(i int) int {
	if len(c.albums) == 0 {
		return -1
	}
	return posModInt(i+1, len(c.albums))
}

// Previous returns the index before i, wrapping to the end.
func (c *Catalog) Previous(i int) int {
	if len(c.albums) == 0 {
		return -1
	}
	return posModInt(i-1, len(c.albums))
}

// Lookup returns the album for url. Covers missing from the catalog get a
// stable placeholder numbered 1..999 from a hash of the url.
func (c *Catalog) Lookup(url ImageID) Album {
	if i, ok := c.byURL[url]; ok {
		return c.albums[i]
	}
	label := "#" + strconv.Itoa(int(coverNameHash(string(url))%999)+1)
	return Album{
		ID:          "unknown",
		Title:       label,
		Artist:      defaultArtist,
		Description: label,
		ImageURL:    url,
	}
}

// coverNameHash is the 31-multiplier string hash over UTF-16 code units,
// wrapped to int32 at every step, with the absolute value taken at the end.
func coverNameHash(s string) int64 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

func posModInt(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
