package domain

import "time"

// PostStatus represents the publication state of a post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	return s == PostDraft || s == PostPublished
}

// Post is a blog article. Author holds the owning user's id.
type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	Author        string     `json:"author"`
	Category      string     `json:"category,omitempty"`
	Tags          []string   `json:"tags"`
	Status        PostStatus `json:"status"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Likes         []string   `json:"likes"`
	LikesCount    int        `json:"likesCount"`
	Views         int64      `json:"views"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// OwnerValue implements Owned.
func (p *Post) OwnerValue(field string) (string, bool) {
	switch field {
	case "author":
		return p.Author, true
	}
	return "", false
}

// VisibleTo reports whether user may read the post. Drafts are private to
// their author and admins.
func (p *Post) VisibleTo(user *User) bool {
	if p.Status == PostPublished {
		return true
	}
	return user != nil && (user.IsAdmin() || user.ID == p.Author)
}

// LikedBy reports whether userID appears in the post's likes.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// PostChanges carries a partial post update. Nil fields are left untouched.
type PostChanges struct {
	Title         *string
	Content       *string
	Excerpt       *string
	Category      *string
	Tags          []string
	Status        *PostStatus
	FeaturedImage *string

	// Set by the service, never by clients.
	Slug        *string
	PublishedAt *time.Time
}
