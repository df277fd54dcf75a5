package database

import (
	"fmt"
	"log"
	"os"

	"github.com/SlpAus/rhythm-room-backend/internal/platform/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是全局的gorm数据库实例，房间模块的所有持久化操作都通过它进行
var DB *gorm.DB

// InitDB 初始化数据库连接
func InitDB(cfg config.SqliteConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中可以设为Silent
			Colorful:      true,
		},
	)

	// 连接到SQLite数据库
	DB, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		panic(fmt.Sprintf("无法获取底层数据库连接池: %v", err))
	}
	// SQLite是单写者数据库，把连接池限制为1可以让并发的
	// 写事务在连接池层串行化，避免SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	fmt.Println("数据库连接成功！")
}
