package consts

const (
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"
	NotifyUnreadKey       = "notify:unread:"
	NotifyChannelKey      = "notify:channel:"
	MediaTempKey          = "media:temp"
	MetricDirtyKey        = "metric:dirty"
	MetricLikeKey         = "metric:like:"
	MetricCommentKey      = "metric:comment:"
	MetricRepostKey       = "metric:repost:"
	MetricViewKey         = "metric:view:"
	MetricTrend7DaysKey   = "metric:trend:7d:"
	MetricTrend30DaysKey  = "metric:trend:30d:"
)
