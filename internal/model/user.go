package model

// 用户即频道：别人订阅“我”，订阅数记在SubscribersCount上
// SubscribersCount是派生字段，只由counter包根据subscriptions表重算，不手动增减
type User struct {
	BaseModel
	Username           string `gorm:"unique;not null"`
	Email              string `gorm:"unique;not null"`
	Password           string `gorm:"not null" json:"-"` // bcrypt哈希，序列化时必须排除
	ChannelDescription string `gorm:"type:text"`
	Avatar             string
	Cover              string
	SubscribersCount   uint64 `gorm:"default:0"`
}

func (User) TableName() string {
	return "users"
}
