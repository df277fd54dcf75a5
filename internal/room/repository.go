package room

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/SlpAus/rhythm-room-backend/internal/platform/database"
)

// --- Redis 键名常量 ---

const (
	// StatusCacheKey 是一个 Redis Hash 的键，用于缓存每个房间的状态。
	// Field: 房间的room_id（十进制字符串）
	// Value: WaitRoomStatus 的整数编码
	// 等待界面的状态轮询优先命中这份缓存，SQLite只作为回退。
	StatusCacheKey = "room:status"
)

// --- 并发控制 ---

// repoMutex 是一个模块内部的、不导出的全局读写锁，
// 用于在缓存热重建期间屏蔽对状态缓存的并发写入。
var repoMutex sync.RWMutex

// LockRepository 封装了对模块全局锁的写锁定操作。
func LockRepository() {
	repoMutex.Lock()
}

// UnlockRepository 封装了对模块全局锁的写解锁操作。
func UnlockRepository() {
	repoMutex.Unlock()
}

// RLockRepository 封装了对模块全局锁的读锁定操作。
func RLockRepository() {
	repoMutex.RLock()
}

// RUnlockRepository 封装了对模块全局锁的读解锁操作。
func RUnlockRepository() {
	repoMutex.RUnlock()
}

// --- 状态缓存的读写 ---

// statusCacheField 把room_id编码为状态缓存Hash的field名
func statusCacheField(roomID uint) string {
	return strconv.FormatUint(uint64(roomID), 10)
}

// cacheRoomStatus 把一个房间的最新状态写入Redis缓存。
// 缓存是尽力而为的：Redis不可用时直接跳过，失败只记录日志，
// 不影响已经提交的SQLite事务。
func cacheRoomStatus(roomID uint, status WaitRoomStatus) {
	if database.RDB == nil || !database.IsRedisHealthy() {
		return
	}

	RLockRepository()
	defer RUnlockRepository()

	err := database.RDB.HSet(database.Ctx, StatusCacheKey, statusCacheField(roomID), int(status)).Err()
	if err != nil {
		fmt.Printf("更新房间状态缓存失败 (room_id=%d): %v\n", roomID, err)
	}
}

// lookupCachedRoomStatus 尝试从Redis缓存读取房间状态。
// 第二个返回值表示是否命中；未命中或Redis不可用时由调用方回退到SQLite。
func lookupCachedRoomStatus(roomID uint) (WaitRoomStatus, bool) {
	if database.RDB == nil || !database.IsRedisHealthy() {
		return 0, false
	}

	val, err := database.RDB.HGet(database.Ctx, StatusCacheKey, statusCacheField(roomID)).Int()
	if err != nil {
		return 0, false
	}
	return WaitRoomStatus(val), true
}
