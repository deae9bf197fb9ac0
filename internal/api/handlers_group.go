package api

import "Ripple/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	UserFollowHandler   *handler.UserFollowHandler
	PostHandler         *handler.PostHandler
	InteractionHandler  *handler.InteractionHandler
	NotificationHandler *handler.NotificationHandler
	MetricHandler       *handler.MetricHandler
	MediaHandler        *handler.MediaHandler
	IMHandler           *handler.IMHandler
	WSHandler           *handler.WsHandler
}
