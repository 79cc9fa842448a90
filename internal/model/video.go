package model

// 三个Count都是派生字段，由counter包根据关系表重算
type Video struct {
	BaseModel
	UserID      uint64 `gorm:"not null;index"` // 视频作者，即所属频道
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	VodVideoID  string `gorm:"not null"` // 外部点播服务的媒体ID
	Cover       string

	LikesCount    uint64 `gorm:"default:0"`
	DislikesCount uint64 `gorm:"default:0"`
	CommentsCount uint64 `gorm:"default:0"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (Video) TableName() string {
	return "videos"
}
