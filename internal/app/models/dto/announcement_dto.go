package dto

// AnnouncementRequest is the payload for creating or updating an announcement
type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required" label:"标题"`
	Content string `json:"content" binding:"required" label:"内容"`
	Status  string `json:"status" binding:"required,oneof=DRAFT PUBLISHED" label:"状态"`
}
