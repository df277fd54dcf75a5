package room

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- API 请求/响应模型 ---

type createRoomRequest struct {
	UserID           int            `json:"user_id" binding:"required"`
	LiveID           int            `json:"live_id" binding:"required"`
	SelectDifficulty LiveDifficulty `json:"select_difficulty" binding:"required"`
}

type createRoomResponse struct {
	RoomID uint `json:"room_id"`
}

type listRoomRequest struct {
	LiveID int `json:"live_id" binding:"required"`
}

type listRoomResponse struct {
	RoomInfoList []RoomInfo `json:"room_info_list"`
}

type joinRoomRequest struct {
	UserID           int            `json:"user_id" binding:"required"`
	RoomID           uint           `json:"room_id" binding:"required"`
	SelectDifficulty LiveDifficulty `json:"select_difficulty" binding:"required"`
}

type joinRoomResponse struct {
	JoinRoomResult JoinRoomResult `json:"join_room_result"`
}

type waitRoomRequest struct {
	UserID int  `json:"user_id" binding:"required"`
	RoomID uint `json:"room_id" binding:"required"`
}

type waitRoomResponse struct {
	Status       WaitRoomStatus `json:"status"`
	RoomUserList []RoomUserInfo `json:"room_user_list"`
}

type startRoomRequest struct {
	RoomID uint `json:"room_id" binding:"required"`
}

type leaveRoomRequest struct {
	UserID int  `json:"user_id" binding:"required"`
	RoomID uint `json:"room_id" binding:"required"`
}

type resultRoomRequest struct {
	UserID int  `json:"user_id" binding:"required"`
	RoomID uint `json:"room_id" binding:"required"`
	// 判定计数的顺序固定为 perfect, great, good, bad, miss
	JudgeCountList []int `json:"judge_count_list" binding:"required,len=5"`
}

type resultListResponse struct {
	ResultUserList []RoomUserResult `json:"result_user_list"`
}

// --- gin 处理函数 ---

// Create 处理房间创建请求。
// 房间创建成功后，创建者会作为房主在同一个请求内加入房间。
func Create(c *gin.Context) {
	var body createRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}
	if !body.SelectDifficulty.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的难度选择"})
		return
	}

	roomID, err := CreateRoom(body.LiveID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建房间失败: " + err.Error()})
		return
	}

	// 刚创建的空房间只会因存储层故障而加入失败
	if result := JoinRoom(body.UserID, roomID, body.SelectDifficulty, true); result != JoinOk {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "房主加入新房间失败"})
		return
	}

	c.JSON(http.StatusOK, createRoomResponse{RoomID: roomID})
}

// List 处理按演出ID查询房间列表的请求
func List(c *gin.Context) {
	var body listRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	rooms, err := GetRoomsByLiveID(body.LiveID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询房间列表失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, listRoomResponse{RoomInfoList: rooms})
}

// Join 处理加入房间的请求。
// 满员/解散不是HTTP层的错误，以join_room_result编码返回给客户端。
func Join(c *gin.Context) {
	var body joinRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}
	if !body.SelectDifficulty.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的难度选择"})
		return
	}

	result := JoinRoom(body.UserID, body.RoomID, body.SelectDifficulty, false)
	c.JSON(http.StatusOK, joinRoomResponse{JoinRoomResult: result})
}

// Wait 处理等待界面的轮询请求，返回房间状态和成员列表
func Wait(c *gin.Context) {
	var body waitRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	status, err := GetRoomStatus(body.RoomID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "房间不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询房间状态失败: " + err.Error()})
		return
	}

	users, err := GetRoomUsers(body.RoomID, body.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询房间成员失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, waitRoomResponse{Status: status.Status, RoomUserList: users})
}

// Start 处理房主开始演出的请求
func Start(c *gin.Context) {
	var body startRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	if err := StartRoom(body.RoomID); err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "房间不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "开始演出失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// Leave 处理退出房间的请求
func Leave(c *gin.Context) {
	var body leaveRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	if err := LeaveRoom(body.UserID, body.RoomID); err != nil {
		if errors.Is(err, ErrRoomUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不在房间中"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "退出房间失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// SubmitResult 处理演出结束后judge计数的回写请求
func SubmitResult(c *gin.Context) {
	var body resultRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	judges := JudgeCounts{
		Perfect: body.JudgeCountList[0],
		Great:   body.JudgeCountList[1],
		Good:    body.JudgeCountList[2],
		Bad:     body.JudgeCountList[3],
		Miss:    body.JudgeCountList[4],
	}
	if err := StoreResult(body.UserID, body.RoomID, judges); err != nil {
		if errors.Is(err, ErrRoomUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不在房间中"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存演出结果失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// GetResults 返回房间全部成员的演出结果
func GetResults(c *gin.Context) {
	var body startRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	results, err := GetRoomResults(body.RoomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询演出结果失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resultListResponse{ResultUserList: results})
}
