package domain

import "time"

// URLPrefix is the public route under which stored images are served.
const URLPrefix = "/uploads/"

type Image struct {
	Filename    string
	ContentType string
	Size        int64
	ModTime     time.Time
}

func (i Image) URL() string {
	return URLPrefix + i.Filename
}
