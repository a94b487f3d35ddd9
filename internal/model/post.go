package model

import "time"

// Post is a blog entry owned by the user whose ID is AuthorID.
//
// Author is a snapshot of the owner's username taken at creation time.
// AuthorID never changes after Create.
type Post struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Category  string     `json:"category"`
	Author    string     `json:"author"`
	AuthorID  int64      `json:"authorId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// OwnedBy reports whether userID is the post's owner.
func (p *Post) OwnedBy(userID int64) bool {
	return p.AuthorID == userID
}
