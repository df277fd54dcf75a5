package room

import (
	"fmt"

	"github.com/SlpAus/rhythm-room-backend/internal/platform/database"
)

// migrateDB 负责自动迁移房间相关的数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Room{}, &RoomUser{}); err != nil {
		return fmt.Errorf("无法迁移room/room_user表: %w", err)
	}
	fmt.Println("Room数据库表迁移成功。")
	return nil
}

// WarmupCache 从SQLite加载所有房间的状态，并预热到Redis的状态缓存中
func WarmupCache() error {
	var rooms []Room
	if err := database.DB.Select("room_id", "status").Find(&rooms).Error; err != nil {
		return fmt.Errorf("无法从SQLite读取房间状态: %w", err)
	}

	pipe := database.RDB.Pipeline()
	// 先清空旧的缓存，确保数据一致性
	pipe.Del(database.Ctx, StatusCacheKey)

	if len(rooms) > 0 {
		fields := make(map[string]interface{}, len(rooms))
		for _, r := range rooms {
			fields[statusCacheField(r.RoomID)] = int(r.Status)
		}
		pipe.HSet(database.Ctx, StatusCacheKey, fields)
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热房间状态到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 个房间状态到Redis。\n", len(rooms))
	return nil
}

// PrimeCachedDB 是room模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
