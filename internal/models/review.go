package models

const (
	MinRating = 1
	MaxRating = 5

	AuthorAnonymous = "Anonymous"
	AuthorVerified  = "Verified User"
)

type Review struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Rating   int    `json:"rating"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Verified bool   `json:"verified"`
	Location string `json:"location,omitempty"`
	Reply    string `json:"reply,omitempty"`
}

func (r Review) HasReply() bool {
	return r.Reply != ""
}
