package models

import "time"

// Announcement defines the model for the 'announcements' table
type Announcement struct {
	ID          int64              `json:"id" db:"id"`
	Title       string             `json:"title" db:"title"`
	Content     string             `json:"content" db:"content"`
	Status      AnnouncementStatus `json:"status" db:"status"`
	PublishedAt *time.Time         `json:"publishedAt,omitempty" db:"published_at"`
	AuthorID    int64              `json:"authorId" db:"author_id"`
	AuthorName  string             `json:"authorName,omitempty" db:"-"`
	CreatedAt   time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" db:"updated_at"`
}

// ApplyStatus moves the announcement to status. publishedAt is stamped with now
// only the first time the announcement becomes PUBLISHED and is never cleared.
func (a *Announcement) ApplyStatus(status AnnouncementStatus, now time.Time) {
	a.Status = status
	switch status {
	case AnnouncementPublished:
		if a.PublishedAt == nil {
			t := now
			a.PublishedAt = &t
		}
	case AnnouncementDraft:
		// unpublishing keeps the original publishedAt
	}
}
