package rest

import "github.com/gin-gonic/gin"

func NewApi(router *gin.Engine, h *Handler) {
	router.GET("/", h.ListPosts)
	router.GET("/index.html", h.ListPosts)
	router.GET("/blog", h.ShowForm)
	router.GET("/blog.html", h.ShowForm)
	router.POST("/blog", h.SubmitForm)
	router.POST("/blog/cancel", h.CancelForm)
	router.GET("/edit/:id", h.EditPost)
	router.POST("/delete/:id", h.DeletePost)
	router.POST("/theme", h.ToggleTheme)
	router.GET("/healthz", h.Health)

	postsV1 := router.Group("posts/v1")
	{
		postsV1.GET("/", h.GetPosts)
		postsV1.GET("/:postId", h.GetPost)
		postsV1.POST("/", h.CreatePost)
		postsV1.PUT("/:postId", h.UpdatePost)
		postsV1.DELETE("/:postId", h.DeletePostJSON)
	}
}
