package model

import "time"

// UserFollow 关注关系，(follower, following) 联合主键保证同一对关系只存一行
type UserFollow struct {
	FollowerID  uint64    `gorm:"primaryKey" json:"followerId"`
	FollowingID uint64    `gorm:"primaryKey;index:idx_follows_following" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}
