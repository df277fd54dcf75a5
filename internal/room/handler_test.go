package room

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter 构建一个只挂载房间路由的gin引擎，
// 路径与api.SetupRoutes注册的保持一致。
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	roomRoutes := r.Group("/api/room")
	{
		roomRoutes.POST("/create", Create)
		roomRoutes.POST("/list", List)
		roomRoutes.POST("/join", Join)
		roomRoutes.POST("/wait", Wait)
		roomRoutes.POST("/start", Start)
		roomRoutes.POST("/leave", Leave)
		roomRoutes.POST("/result", SubmitResult)
		roomRoutes.POST("/results", GetResults)
	}
	return r
}

// postJSON 发送一个JSON请求并返回录制的响应
func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody 把响应体解析到目标结构
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}

// TestCreateEndpoint 测试创建接口：房主在同一请求内入场
func TestCreateEndpoint(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter()

	w := postJSON(t, r, "/api/room/create", gin.H{
		"user_id":           1,
		"live_id":           100,
		"select_difficulty": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created createRoomResponse
	decodeBody(t, w, &created)
	require.NotZero(t, created.RoomID)

	w = postJSON(t, r, "/api/room/wait", gin.H{"user_id": 1, "room_id": created.RoomID})
	require.Equal(t, http.StatusOK, w.Code)

	var wait waitRoomResponse
	decodeBody(t, w, &wait)
	assert.Equal(t, StatusWaiting, wait.Status)
	require.Len(t, wait.RoomUserList, 1)
	assert.True(t, wait.RoomUserList[0].IsHost)
	assert.True(t, wait.RoomUserList[0].IsMe)
	assert.Equal(t, DifficultyHard, wait.RoomUserList[0].LiveDifficulty)
}

// TestCreateEndpointBadRequest 测试创建接口的参数校验
func TestCreateEndpointBadRequest(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter()

	// 缺少live_id
	w := postJSON(t, r, "/api/room/create", gin.H{"user_id": 1, "select_difficulty": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 协议外的难度编码
	w = postJSON(t, r, "/api/room/create", gin.H{"user_id": 1, "live_id": 100, "select_difficulty": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestJoinEndpointResultCodes 测试加入接口的业务结果编码
func TestJoinEndpointResultCodes(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter()

	roomID := mustCreateRoom(t, 100, 1)
	for userID := 2; userID <= 4; userID++ {
		require.Equal(t, JoinOk, JoinRoom(userID, roomID, DifficultyNormal, false))
	}

	// 满员的房间返回RoomFull编码，HTTP层仍是200
	w := postJSON(t, r, "/api/room/join", gin.H{"user_id": 5, "room_id": roomID, "select_difficulty": 1})
	require.Equal(t, http.StatusOK, w.Code)
	var joined joinRoomResponse
	decodeBody(t, w, &joined)
	assert.Equal(t, JoinRoomFull, joined.JoinRoomResult)

	// 不存在的房间返回Disbanded编码
	w = postJSON(t, r, "/api/room/join", gin.H{"user_id": 5, "room_id": 9999, "select_difficulty": 1})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &joined)
	assert.Equal(t, JoinDisbanded, joined.JoinRoomResult)
}

// TestListEndpoint 测试房间列表接口
func TestListEndpoint(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter()

	mustCreateRoom(t, 100, 1)
	mustCreateRoom(t, 200, 2)

	w := postJSON(t, r, "/api/room/list", gin.H{"live_id": 100})
	require.Equal(t, http.StatusOK, w.Code)

	var list listRoomResponse
	decodeBody(t, w, &list)
	require.Len(t, list.RoomInfoList, 1)
	assert.Equal(t, 100, list.RoomInfoList[0].LiveID)
	assert.Equal(t, MaxUserCount, list.RoomInfoList[0].MaxUserCount)
}

// TestWaitEndpointNotFound 等待接口对不存在的房间返回404
func TestWaitEndpointNotFound(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter()

	w := postJSON(t, r, "/api/room/wait", gin.H{"user_id": 1, "room_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestStartEndpoint 测试开始接口和之后的状态轮询
func TestStartEndpoint(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter()

	roomID := mustCreateRoom(t, 100, 1)

	w := postJSON(t, r, "/api/room/start", gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/api/room/wait", gin.H{"user_id": 1, "room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)
	var wait waitRoomResponse
	decodeBody(t, w, &wait)
	assert.Equal(t, StatusLiveStart, wait.Status)

	w = postJSON(t, r, "/api/room/start", gin.H{"room_id": uint(9999)})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestResultEndpoints 测试演出结果的回写和查询接口
func TestResultEndpoints(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter()

	roomID := mustCreateRoom(t, 100, 1)

	w := postJSON(t, r, "/api/room/result", gin.H{
		"user_id":          1,
		"room_id":          roomID,
		"judge_count_list": []int{120, 30, 8, 2, 1},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 长度不为5的判定列表应被拒绝
	w = postJSON(t, r, "/api/room/result", gin.H{
		"user_id":          1,
		"room_id":          roomID,
		"judge_count_list": []int{120, 30},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/room/results", gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)

	var results resultListResponse
	decodeBody(t, w, &results)
	require.Len(t, results.ResultUserList, 1)
	assert.Equal(t, 120, results.ResultUserList[0].JudgeCountPerfect)
	assert.Equal(t, 1, results.ResultUserList[0].JudgeCountMiss)
}

// TestLeaveEndpoint 测试退出接口
func TestLeaveEndpoint(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter()

	roomID := mustCreateRoom(t, 100, 1)
	require.Equal(t, JoinOk, JoinRoom(2, roomID, DifficultyNormal, false))

	w := postJSON(t, r, "/api/room/leave", gin.H{"user_id": 2, "room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/api/room/leave", gin.H{"user_id": 2, "room_id": roomID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
