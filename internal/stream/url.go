// Package stream builds playable stream URLs from catalog item metadata.
package stream

import (
	"fmt"

	"marquee/internal/models"
)

// URL builds the stream URL for a catalog item:
// https://<host>/stream/{torrentHash}/{resourceIndex}. There is no further
// negotiation protocol; the streaming host serves the resource directly.
func URL(host string, item models.CatalogItem) string {
	return fmt.Sprintf("https://%s/stream/%s/%d", host, item.TorrentHash, item.ResourceIndex)
}
