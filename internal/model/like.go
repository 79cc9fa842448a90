package model

// 点赞极性：+1赞，-1踩。没有记录即中立，三态用“记录存在+极性”编码
const (
	PolarityLike    int8 = 1
	PolarityDislike int8 = -1
)

// 用户与视频的点赞/点踩关系，联合唯一索引保证一对(user, video)至多一条记录
type VideoLike struct {
	BaseModel
	UserID   uint64 `gorm:"not null;uniqueIndex:idx_user_video"`
	VideoID  uint64 `gorm:"not null;uniqueIndex:idx_user_video"`
	Polarity int8   `gorm:"not null"`
}

func (VideoLike) TableName() string {
	return "video_likes"
}

// LikeState 把“存在+极性”显式化成三态枚举，避免业务层到处判断nil和正负号
type LikeState int8

const (
	StateNeutral  LikeState = 0
	StateLiked    LikeState = 1
	StateDisliked LikeState = -1
)

// StateOf 由查到的点赞记录推导当前状态，record为nil表示中立
func StateOf(record *VideoLike) LikeState {
	if record == nil {
		return StateNeutral
	}
	if record.Polarity == PolarityLike {
		return StateLiked
	}
	return StateDisliked
}
