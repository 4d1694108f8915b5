package restaurant

import (
	"net/url"
	"path"
	"strconv"
)

const (
	smallImageDir = "/images/sm-img"
	largeImageDir = "/images/lg-img"
)

// URLFor returns the relative URL of the restaurant's detail page.
func URLFor(r Restaurant) string {
	return "./restaurant.html?" + url.Values{"id": {strconv.FormatInt(r.ID, 10)}}.Encode()
}

// ImageURLFor returns the URL of the restaurant's thumbnail.
func ImageURLFor(r Restaurant) string {
	return path.Join(smallImageDir, r.Photograph)
}

// LargeImageURLFor returns the URL of the restaurant's full size photograph.
func LargeImageURLFor(r Restaurant) string {
	return path.Join(largeImageDir, r.Photograph)
}
