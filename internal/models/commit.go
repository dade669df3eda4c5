package models

// CommitRecord is one commit as listed by the source-control API,
// newest first.
type CommitRecord struct {
	Message    string `json:"message"`
	AuthorName string `json:"author_name"`
}
