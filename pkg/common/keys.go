package common

import "fmt"

var (
	// Sync keys
	syncPrefix   string = "sync"
	syncUserLock string = "sync:lock:%s" // userId
)

var Keys = &redisKeys{}

type redisKeys struct{}

// Sync keys
func (rk *redisKeys) SyncPrefix() string {
	return syncPrefix
}

func (rk *redisKeys) SyncUserLock(userId string) string {
	return fmt.Sprintf(syncUserLock, userId)
}
