package domain

import "time"

const DefaultCategoryColor = "#6366f1"

// Category groups posts. CreatedBy holds the creating user's id.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedBy   string    `json:"createdBy"`
	PostCount   int64     `json:"postCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnerValue implements Owned.
func (c *Category) OwnerValue(field string) (string, bool) {
	switch field {
	case "createdBy":
		return c.CreatedBy, true
	}
	return "", false
}

// CategoryChanges carries a partial category update.
type CategoryChanges struct {
	Name        *string
	Description *string
	Color       *string
	Slug        *string
}
