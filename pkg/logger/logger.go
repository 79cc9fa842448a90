package logger

import (
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
)

// Log 全局的、配置好的logrus实例
var Log *logrus.Logger

// InitLogger 初始化全局Logger：JSON格式，同时输出到控制台和文件
func InitLogger() {
	Log = logrus.New()

	// 结构化日志，便于后续用ELK、Loki等工具分析
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	file, err := os.OpenFile("viewtube.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("无法打开日志文件: %v", err)
	}
	mw := io.MultiWriter(os.Stdout, file)
	Log.SetOutput(mw)

	Log.SetLevel(logrus.InfoLevel)
}

func init() {
	// 测试或库场景下没人调InitLogger时兜底，避免空指针
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
}
