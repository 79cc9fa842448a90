package router

import (
	"ViewTube/internal/handler"
	"ViewTube/internal/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	userHandler handler.UserHandler,
	videoHandler handler.VideoHandler,
	commentHandler handler.CommentHandler,
	subscriptionHandler handler.SubscriptionHandler,
	likeHandler handler.LikeHandler,
) *gin.Engine {
	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authRequired := middleware.AuthMiddleware(true)
	authOptional := middleware.AuthMiddleware(false)

	apiV1 := r.Group("/api/v1")
	{
		// 用户
		apiV1.POST("/users", userHandler.Register)
		apiV1.POST("/users/login", userHandler.Login)
		apiV1.GET("/user", authRequired, userHandler.GetCurrentUser)
		apiV1.PATCH("/user", authRequired, userHandler.Update)
		apiV1.GET("/users/:user_id", authOptional, userHandler.GetUser)

		// 订阅
		apiV1.POST("/users/:user_id/subscribe", authRequired, subscriptionHandler.Subscribe)
		apiV1.DELETE("/users/:user_id/subscribe", authRequired, subscriptionHandler.Unsubscribe)
		apiV1.GET("/users/:user_id/subscriptions", subscriptionHandler.GetSubscriptions)

		// 视频
		apiV1.POST("/videos", authRequired, videoHandler.CreateVideo)
		apiV1.GET("/videos", videoHandler.GetVideos)
		apiV1.GET("/videos/:video_id", authOptional, videoHandler.GetVideo)
		apiV1.GET("/users/:user_id/videos", videoHandler.GetUserVideos)
		// 放在/user前缀下，避免和/users/:user_id的通配段冲突
		apiV1.GET("/user/videos/feed", authRequired, videoHandler.GetFeedVideos)
		apiV1.PATCH("/videos/:video_id", authRequired, videoHandler.UpdateVideo)
		apiV1.DELETE("/videos/:video_id", authRequired, videoHandler.DeleteVideo)

		// 评论
		apiV1.POST("/videos/:video_id/comments", authRequired, commentHandler.CreateComment)
		apiV1.GET("/videos/:video_id/comments", commentHandler.GetComments)
		apiV1.DELETE("/videos/:video_id/comments/:comment_id", authRequired, commentHandler.DeleteComment)

		// 点赞
		apiV1.POST("/videos/:video_id/like", authRequired, likeHandler.LikeVideo)
		apiV1.POST("/videos/:video_id/dislike", authRequired, likeHandler.DislikeVideo)
		apiV1.GET("/user/videos/liked", authRequired, likeHandler.GetLikedVideos)
	}

	return r
}
