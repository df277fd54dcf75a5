package api

import (
	"github.com/SlpAus/rhythm-room-backend/internal/room"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 房间相关的路由组 /api/room
		// 与客户端协议保持一致，全部使用POST+JSON
		roomRoutes := api.Group("/room")
		{
			roomRoutes.POST("/create", room.Create)
			roomRoutes.POST("/list", room.List)
			roomRoutes.POST("/join", room.Join)
			roomRoutes.POST("/wait", room.Wait)
			roomRoutes.POST("/start", room.Start)
			roomRoutes.POST("/leave", room.Leave)
			roomRoutes.POST("/result", room.SubmitResult)
			roomRoutes.POST("/results", room.GetResults)
		}
	}
}
