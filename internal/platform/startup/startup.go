package startup

import (
	"fmt"

	"github.com/SlpAus/rhythm-room-backend/internal/room"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := room.PrimeCachedDB(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 是一个专门用于在运行时热重建Redis缓存的函数。
// 健康检查器在检测到Redis重启后会调用它，把房间状态缓存从SQLite重新灌入。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	room.LockRepository()
	defer room.UnlockRepository()
	if err := room.WarmupCache(); err != nil {
		return err
	}

	fmt.Println("缓存热重建完成。")
	return nil
}
