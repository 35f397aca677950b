package models

import "time"

// SiteConfig is one key/value row of the 'site_config' table
type SiteConfig struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	Label     string    `json:"label" db:"label"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Known site configuration keys
const (
	ConfigContactEmail    = "contact_email"
	ConfigContactPhone    = "contact_phone"
	ConfigContactAddress  = "contact_address"
	ConfigContactWechat   = "contact_wechat"
	ConfigCountdownTarget = "countdown_target"
)

// SiteConfigLabels maps every known key to its display label
var SiteConfigLabels = map[string]string{
	ConfigContactEmail:    "联系邮箱",
	ConfigContactPhone:    "联系电话",
	ConfigContactAddress:  "联系地址",
	ConfigContactWechat:   "微信公众号",
	ConfigCountdownTarget: "倒计时目标时间",
}

// ContactConfigKeys are the keys exposed on the public contact endpoint
var ContactConfigKeys = []string{
	ConfigContactEmail,
	ConfigContactPhone,
	ConfigContactAddress,
	ConfigContactWechat,
}

// DashboardStats aggregates the counters shown on the admin dashboard
type DashboardStats struct {
	Users                 int64 `json:"users"`
	Conferences           int64 `json:"conferences"`
	Announcements         int64 `json:"announcements"`
	Registrations         int64 `json:"registrations"`
	PendingRegistrations  int64 `json:"pendingRegistrations"`
	ApprovedRegistrations int64 `json:"approvedRegistrations"`
}
