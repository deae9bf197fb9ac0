package consts

const (
	MimePrefixImage = "image"
	MimePrefixVideo = "video"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)
