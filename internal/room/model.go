package room

import "time"

// MaxUserCount 是一个房间能容纳的玩家上限
const MaxUserCount = 4

// LiveDifficulty 定义了玩家加入房间时选择的难度。
// 数值与数据库和客户端协议中的编码保持一致。
type LiveDifficulty int

const (
	// DifficultyNormal 普通难度
	DifficultyNormal LiveDifficulty = 1
	// DifficultyHard 高难度
	DifficultyHard LiveDifficulty = 2
)

// Valid 检查难度值是否是协议中定义的合法编码
func (d LiveDifficulty) Valid() bool {
	return d == DifficultyNormal || d == DifficultyHard
}

// JoinRoomResult 定义了加入房间操作的业务结果。
// 满员和解散是预期内的结果，以枚举而非error的形式返回。
type JoinRoomResult int

const (
	// JoinOk 加入成功
	JoinOk JoinRoomResult = 1
	// JoinRoomFull 房间已满员
	JoinRoomFull JoinRoomResult = 2
	// JoinDisbanded 房间已解散（不存在或处于解散状态）
	JoinDisbanded JoinRoomResult = 3
	// JoinOtherError 意外的存储层错误，事务已回滚
	JoinOtherError JoinRoomResult = 4
)

// WaitRoomStatus 定义了房间在等待界面的状态
type WaitRoomStatus int

const (
	// StatusWaiting 等待房主按下开始按钮
	StatusWaiting WaitRoomStatus = 1
	// StatusLiveStart 演出已开始，客户端可以进入演出画面
	StatusLiveStart WaitRoomStatus = 2
	// StatusDissolution 房间已被解散，这是终态
	StatusDissolution WaitRoomStatus = 3
)

// Room 定义了房间在SQLite数据库中的持久化模型。
// joined_user_count 是room_user行数的非规范化缓存，
// 必须和成员行在同一个事务内维护。
type Room struct {
	// RoomID 是房间的主键，由数据库在创建时自增分配
	RoomID uint `gorm:"column:room_id;primaryKey;autoIncrement" json:"room_id"`

	// LiveID 引用外部定义的歌曲/演出，对本模块是不透明的
	LiveID int `gorm:"column:live_id;not null;index" json:"live_id"`

	// JoinedUserCount 当前成员数，0 <= count <= MaxUserCount
	JoinedUserCount int `gorm:"column:joined_user_count;not null" json:"joined_user_count"`

	// Status 房间状态，建库时默认为Waiting
	Status WaitRoomStatus `gorm:"column:status;not null;default:1" json:"status"`

	// 由GORM自动管理
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName 指定表名，与既有部署的schema保持兼容
func (Room) TableName() string {
	return "room"
}

// RoomUser 定义了房间成员在数据库中的持久化模型。
// (room_id, user_id) 是复合主键，同一用户在同一房间只能有一行。
type RoomUser struct {
	RoomID uint `gorm:"column:room_id;primaryKey" json:"room_id"`
	UserID int  `gorm:"column:user_id;primaryKey" json:"user_id"`

	// LiveDifficulty 是该成员加入时选择的难度
	LiveDifficulty LiveDifficulty `gorm:"column:live_difficulty;not null" json:"live_difficulty"`

	// IsHost 对创建房间的那名玩家为true，每个房间至多一个
	IsHost bool `gorm:"column:is_host;not null" json:"is_host"`

	// 演出结束后回写的判定计数
	JudgeCountPerfect int `gorm:"column:judge_count_perfect;not null;default:0" json:"judge_count_perfect"`
	JudgeCountGreat   int `gorm:"column:judge_count_great;not null;default:0" json:"judge_count_great"`
	JudgeCountGood    int `gorm:"column:judge_count_good;not null;default:0" json:"judge_count_good"`
	JudgeCountBad     int `gorm:"column:judge_count_bad;not null;default:0" json:"judge_count_bad"`
	JudgeCountMiss    int `gorm:"column:judge_count_miss;not null;default:0" json:"judge_count_miss"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName 指定表名
func (RoomUser) TableName() string {
	return "room_user"
}

// --- 查询投影 ---

// RoomInfo 是房间列表查询的投影
type RoomInfo struct {
	RoomID          uint `json:"room_id"`
	LiveID          int  `json:"live_id"`
	JoinedUserCount int  `json:"joined_user_count"`
	MaxUserCount    int  `json:"max_user_count"`
}

// RoomStatus 是房间状态查询的投影
type RoomStatus struct {
	RoomID uint           `json:"room_id"`
	Status WaitRoomStatus `json:"status"`
}

// RoomUserInfo 是成员列表查询的投影。
// IsMe 仅对发起查询的用户为true。
type RoomUserInfo struct {
	RoomID         uint           `json:"room_id"`
	UserID         int            `json:"user_id"`
	LiveDifficulty LiveDifficulty `json:"live_difficulty"`
	IsMe           bool           `json:"is_me"`
	IsHost         bool           `json:"is_host"`
}

// JudgeCounts 是一局演出中五种判定的计数
type JudgeCounts struct {
	Perfect int `json:"perfect"`
	Great   int `json:"great"`
	Good    int `json:"good"`
	Bad     int `json:"bad"`
	Miss    int `json:"miss"`
}

// RoomUserResult 是演出结果查询的投影
type RoomUserResult struct {
	RoomID            uint `json:"room_id"`
	UserID            int  `json:"user_id"`
	JudgeCountPerfect int  `json:"judge_count_perfect"`
	JudgeCountGreat   int  `json:"judge_count_great"`
	JudgeCountGood    int  `json:"judge_count_good"`
	JudgeCountBad     int  `json:"judge_count_bad"`
	JudgeCountMiss    int  `json:"judge_count_miss"`
}
