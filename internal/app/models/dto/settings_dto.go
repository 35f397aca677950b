package dto

import "time"

// UpdateSettingsRequest upserts site settings. Absent keys are left alone,
// empty strings clear the value.
type UpdateSettingsRequest struct {
	ContactEmail    *string `json:"contact_email" binding:"omitempty,email" label:"联系邮箱"`
	ContactPhone    *string `json:"contact_phone" binding:"omitempty,max=64" label:"联系电话"`
	ContactAddress  *string `json:"contact_address" binding:"omitempty,max=255" label:"联系地址"`
	ContactWechat   *string `json:"contact_wechat" binding:"omitempty,max=128" label:"微信公众号"`
	CountdownTarget *string `json:"countdown_target" label:"倒计时目标时间"`
}

// CountdownResponse is the public countdown target
type CountdownResponse struct {
	Target *time.Time `json:"target"`
}
