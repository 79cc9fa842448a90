package model

// 订阅关系：UserID订阅ChannelID，联合唯一索引保证一对(user, channel)至多一条记录
// 唯一性靠MySQL的唯一索引兜底，并发下重复插入会被数据库拒绝
type Subscription struct {
	BaseModel
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_user_channel"`
	ChannelID uint64 `gorm:"not null;uniqueIndex:idx_user_channel"`

	Channel User `gorm:"foreignKey:ChannelID"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
