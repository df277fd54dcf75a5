package room

import (
	"errors"
	"fmt"

	"github.com/SlpAus/rhythm-room-backend/internal/platform/database"
	"gorm.io/gorm"
)

// GetRoomsByLiveID 返回指定演出下的所有房间，按存储顺序排列
func GetRoomsByLiveID(liveID int) ([]RoomInfo, error) {
	var rooms []Room
	if err := database.DB.Where("live_id = ?", liveID).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("无法查询演出 %d 的房间列表: %w", liveID, err)
	}

	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, RoomInfo{
			RoomID:          r.RoomID,
			LiveID:          r.LiveID,
			JoinedUserCount: r.JoinedUserCount,
			MaxUserCount:    MaxUserCount,
		})
	}
	return infos, nil
}

// GetRoomStatus 返回房间的当前状态。
// 优先命中Redis状态缓存，未命中时回退到SQLite并回填缓存。
// 房间不存在时返回ErrRoomNotFound，由调用方决定如何呈现。
func GetRoomStatus(roomID uint) (RoomStatus, error) {
	if status, ok := lookupCachedRoomStatus(roomID); ok {
		return RoomStatus{RoomID: roomID, Status: status}, nil
	}

	var target Room
	err := database.DB.Select("room_id", "status").First(&target, "room_id = ?", roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoomStatus{}, ErrRoomNotFound
		}
		return RoomStatus{}, fmt.Errorf("无法查询房间状态 (room_id=%d): %w", roomID, err)
	}

	cacheRoomStatus(target.RoomID, target.Status)
	return RoomStatus{RoomID: target.RoomID, Status: target.Status}, nil
}

// GetRoomUsers 返回房间的全部成员。
// 与请求者user_id一致的那一行is_me为true，其余为false。
func GetRoomUsers(roomID uint, requestingUserID int) ([]RoomUserInfo, error) {
	var members []RoomUser
	if err := database.DB.Where("room_id = ?", roomID).Find(&members).Error; err != nil {
		return nil, fmt.Errorf("无法查询房间成员 (room_id=%d): %w", roomID, err)
	}

	infos := make([]RoomUserInfo, 0, len(members))
	for _, m := range members {
		infos = append(infos, RoomUserInfo{
			RoomID:         m.RoomID,
			UserID:         m.UserID,
			LiveDifficulty: m.LiveDifficulty,
			IsMe:           m.UserID == requestingUserID,
			IsHost:         m.IsHost,
		})
	}
	return infos, nil
}

// GetRoomResults 返回房间全部成员已回写的判定计数
func GetRoomResults(roomID uint) ([]RoomUserResult, error) {
	var members []RoomUser
	if err := database.DB.Where("room_id = ?", roomID).Find(&members).Error; err != nil {
		return nil, fmt.Errorf("无法查询演出结果 (room_id=%d): %w", roomID, err)
	}

	results := make([]RoomUserResult, 0, len(members))
	for _, m := range members {
		results = append(results, RoomUserResult{
			RoomID:            m.RoomID,
			UserID:            m.UserID,
			JudgeCountPerfect: m.JudgeCountPerfect,
			JudgeCountGreat:   m.JudgeCountGreat,
			JudgeCountGood:    m.JudgeCountGood,
			JudgeCountBad:     m.JudgeCountBad,
			JudgeCountMiss:    m.JudgeCountMiss,
		})
	}
	return results, nil
}
