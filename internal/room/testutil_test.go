package room

import (
	"fmt"
	"strings"
	"testing"

	"github.com/SlpAus/rhythm-room-backend/internal/platform/database"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestEnv 为一个测试准备独立的SQLite内存库和miniredis实例，
// 并把它们挂到database包的全局句柄上。
func setupTestEnv(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	// 每个测试使用独立命名的共享内存库，测试之间互不可见
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 与生产配置一致：SQLite单写者，连接池限制为1
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Room{}, &RoomUser{}))
	database.DB = db

	mr := miniredis.RunT(t)
	database.RDB = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		database.RDB = nil
		database.DB = nil
		_ = sqlDB.Close()
	})

	return mr
}

// mustCreateRoom 创建一个房间并让房主加入，返回room_id
func mustCreateRoom(t *testing.T, liveID int, hostUserID int) uint {
	t.Helper()

	roomID, err := CreateRoom(liveID)
	require.NoError(t, err)
	require.Equal(t, JoinOk, JoinRoom(hostUserID, roomID, DifficultyHard, true))
	return roomID
}

// roomUserRowCount 直接从数据库统计房间的成员行数
func roomUserRowCount(t *testing.T, roomID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, database.DB.Model(&RoomUser{}).Where("room_id = ?", roomID).Count(&count).Error)
	return count
}

// dbCountRoomUser 统计某个用户在房间里的成员行数
func dbCountRoomUser(roomID uint, userID int, count *int64) error {
	return database.DB.Model(&RoomUser{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(count).Error
}

// currentJoinedUserCount 直接从数据库读取房间的成员计数字段
func currentJoinedUserCount(t *testing.T, roomID uint) int {
	t.Helper()

	var target Room
	require.NoError(t, database.DB.First(&target, "room_id = ?", roomID).Error)
	return target.JoinedUserCount
}
