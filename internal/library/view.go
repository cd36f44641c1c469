// Package library holds the per-visitor catalog view: accumulated tracks,
// search, sort, selection and playback speed.
package library

import (
	"cmp"
	"slices"
	"strings"

	"github.com/damacus/s3-jukebox/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField is a sortable table column
type SortField string

const (
	SortByName         SortField = "name"
	SortBySize         SortField = "size"
	SortByLastModified SortField = "lastModified"
)

// SortDirection is ascending or descending
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// ParseSortField validates a column name coming from a request
func ParseSortField(s string) (SortField, bool) {
	switch f := SortField(s); f {
	case SortByName, SortBySize, SortByLastModified:
		return f, true
	}
	return "", false
}

// DeriveView filters tracks whose name contains query (case-insensitive)
// and sorts the result by field and dir. Ties keep their filtered order.
// The input slice is not modified.
func DeriveView(tracks []models.Track, query string, field SortField, dir SortDirection) []models.Track {
	needle := strings.ToLower(query)
	visible := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if needle == "" || strings.Contains(strings.ToLower(t.Name), needle) {
			visible = append(visible, t)
		}
	}

	compare := comparator(field)
	slices.SortStableFunc(visible, func(a, b models.Track) int {
		if dir == Descending {
			return -compare(a, b)
		}
		return compare(a, b)
	})
	return visible
}

func comparator(field SortField) func(a, b models.Track) int {
	switch field {
	case SortBySize:
		return func(a, b models.Track) int { return cmp.Compare(a.Size, b.Size) }
	case SortByLastModified:
		return func(a, b models.Track) int { return a.LastModified.Compare(b.LastModified) }
	default:
		// A Collator is not safe for concurrent use; one per derivation
		col := collate.New(language.Und)
		return func(a, b models.Track) int { return col.CompareString(a.Name, b.Name) }
	}
}
