package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	log  *zap.Logger
	once sync.Once
)

// Init builds the process-wide logger. Development mode gives human-readable
// console output; anything else gets production JSON.
func Init() *zap.Logger {
	once.Do(func() {
		var err error
		if os.Getenv("APP_ENV") == "development" {
			log, err = zap.NewDevelopment()
		} else {
			log, err = zap.NewProduction()
		}
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
	})
	return log
}

// Get returns the process logger, initializing it on first use.
func Get() *zap.Logger {
	if log == nil {
		return Init()
	}
	return log
}
