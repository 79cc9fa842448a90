package model

import (
	"time"

	"gorm.io/gorm"
)

// gorm默认的ID是uint类型，项目里统一用uint64，所以自定义基础结构体
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
