package room

import (
	"errors"
	"fmt"

	"github.com/SlpAus/rhythm-room-backend/internal/platform/database"
	"gorm.io/gorm"
)

// --- 导出的错误 ---

// ErrRoomNotFound 表示查询的房间在数据库中不存在
var ErrRoomNotFound = errors.New("房间不存在")

// ErrRoomUserNotFound 表示目标用户不在指定房间中
var ErrRoomUserNotFound = errors.New("用户不在房间中")

// errRoomBecameFull 是join事务内部使用的哨兵错误。
// 当条件自增没有命中任何行时用它触发回滚，把已写入的成员行一并撤销。
var errRoomBecameFull = errors.New("房间在提交前已满员")

// CreateRoom 创建一个新房间并返回数据库分配的room_id。
// 新房间成员数为0，状态为Waiting。存储层故障直接向调用方传播，不做重试。
func CreateRoom(liveID int) (uint, error) {
	newRoom := Room{
		LiveID:          liveID,
		JoinedUserCount: 0,
		Status:          StatusWaiting,
	}
	if err := database.DB.Create(&newRoom).Error; err != nil {
		return 0, fmt.Errorf("无法创建房间 (live_id=%d): %w", liveID, err)
	}

	cacheRoomStatus(newRoom.RoomID, newRoom.Status)
	return newRoom.RoomID, nil
}

// JoinRoom 尝试把一名用户加入房间。
// 满员和解散是预期内的业务结果，通过返回值表达；
// 只有意外的存储层错误才会被折叠为JoinOtherError，此时事务已整体回滚。
//
// 整个读-改-写序列在一个事务中执行。并发安全的关键是第4步的条件自增：
// 成员行先写入，但只有 joined_user_count < MaxUserCount 的条件更新
// 命中了行，事务才允许提交。两个并发join在数据库层互相串行，
// 后到的一方条件不再成立，回滚自己的成员行并得到RoomFull。
func JoinRoom(userID int, roomID uint, difficulty LiveDifficulty, isHost bool) JoinRoomResult {
	result := JoinOtherError

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 读取房间，确认存在性
		var target Room
		if err := tx.First(&target, "room_id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = JoinDisbanded
				return nil
			}
			return err
		}

		// 已解散的房间等同于不存在
		if target.Status == StatusDissolution {
			result = JoinDisbanded
			return nil
		}

		// 2. 容量预检查，满员时不写任何行
		if target.JoinedUserCount >= MaxUserCount {
			result = JoinRoomFull
			return nil
		}

		// 3. 写入成员行
		member := RoomUser{
			RoomID:         roomID,
			UserID:         userID,
			LiveDifficulty: difficulty,
			IsHost:         isHost,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		// 4. 条件自增成员计数，这里是并发join的串行化点
		res := tx.Model(&Room{}).
			Where("room_id = ? AND joined_user_count < ?", roomID, MaxUserCount).
			Update("joined_user_count", gorm.Expr("joined_user_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 另一个事务抢先占满了房间，回滚本次的成员写入
			return errRoomBecameFull
		}

		result = JoinOk
		return nil
	})

	if err != nil {
		if errors.Is(err, errRoomBecameFull) {
			return JoinRoomFull
		}
		// 意外错误在这里集中记录完整上下文，向调用方只返回泛化的结果码
		fmt.Printf("加入房间时发生意外错误 (room_id=%d, user_id=%d): %v\n", roomID, userID, err)
		return JoinOtherError
	}
	return result
}

// StartRoom 把房间状态置为LiveStart。
// 与既有部署的行为保持一致：无条件覆盖，不校验当前状态，
// 重复调用等价于幂等的覆盖写。
func StartRoom(roomID uint) error {
	res := database.DB.Model(&Room{}).
		Where("room_id = ?", roomID).
		Update("status", StatusLiveStart)
	if res.Error != nil {
		return fmt.Errorf("无法开始房间 (room_id=%d): %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}

	cacheRoomStatus(roomID, StatusLiveStart)
	return nil
}

// LeaveRoom 把一名用户移出房间。
// 成员行删除和计数递减在同一事务内完成；
// 房主退出或房间被清空时，房间进入Dissolution终态。
func LeaveRoom(userID int, roomID uint) error {
	var dissolved bool

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var member RoomUser
		if err := tx.First(&member, "room_id = ? AND user_id = ?", roomID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomUserNotFound
			}
			return err
		}

		if err := tx.Delete(&RoomUser{}, "room_id = ? AND user_id = ?", roomID, userID).Error; err != nil {
			return err
		}

		res := tx.Model(&Room{}).
			Where("room_id = ? AND joined_user_count > 0", roomID).
			Update("joined_user_count", gorm.Expr("joined_user_count - 1"))
		if res.Error != nil {
			return res.Error
		}

		var target Room
		if err := tx.First(&target, "room_id = ?", roomID).Error; err != nil {
			return err
		}
		if member.IsHost || target.JoinedUserCount == 0 {
			if err := tx.Model(&Room{}).
				Where("room_id = ?", roomID).
				Update("status", StatusDissolution).Error; err != nil {
				return err
			}
			dissolved = true
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrRoomUserNotFound) {
			return err
		}
		return fmt.Errorf("退出房间失败 (room_id=%d, user_id=%d): %w", roomID, userID, err)
	}

	if dissolved {
		cacheRoomStatus(roomID, StatusDissolution)
	}
	return nil
}

// StoreResult 在演出结束后回写一名成员的判定计数
func StoreResult(userID int, roomID uint, judges JudgeCounts) error {
	res := database.DB.Model(&RoomUser{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Updates(map[string]interface{}{
			"judge_count_perfect": judges.Perfect,
			"judge_count_great":   judges.Great,
			"judge_count_good":    judges.Good,
			"judge_count_bad":     judges.Bad,
			"judge_count_miss":    judges.Miss,
		})
	if res.Error != nil {
		return fmt.Errorf("无法保存演出结果 (room_id=%d, user_id=%d): %w", roomID, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRoomUserNotFound
	}
	return nil
}
