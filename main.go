package main

import (
	"recruitsync/core/logger"
	"recruitsync/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
