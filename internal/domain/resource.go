package domain

import "time"

// Resource is a learning material shared by a student or a tutor. Only the
// metadata is stored; the file itself lives elsewhere.
type Resource struct {
	ID          string
	AuthorID    string
	AuthorName  string
	Title       string
	Description string
	Subject     string
	FileType    string
	FileName    string
	Views       int
	Downloads   int
	UploadedAt  time.Time
}
