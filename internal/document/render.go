// Package document renders the now-playing status block and patches it into
// a larger text document without disturbing the surrounding content.
package document

import (
	"fmt"
	"time"

	"github.com/nowsync/nowsync/internal/track"
)

// BlockMarker opens the status block. The patcher locates the block by this
// line prefix, so renders and lookups must agree on it exactly.
const BlockMarker = "> **Now Playing:**"

// timestampLayout matches the original block format, e.g.
// "2024-01-01 00:00:00 IST".
const timestampLayout = "2006-01-02 15:04:05 MST"

// Render produces the status block for a track at the given time. The block
// is a three-line quoted callout: marker line, empty continuation, link line.
func Render(t *track.Track, now time.Time) string {
	return fmt.Sprintf("%s %s - %s [%s]\n> \n> [Last.fm](%s) | Updated: %s",
		BlockMarker, t.Name, t.Artist, t.Album, t.URL, now.Format(timestampLayout))
}
