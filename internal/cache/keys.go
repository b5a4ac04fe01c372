package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserTTL    = 5 * time.Minute
	MessageTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func MessageKey(messageID uint) string {
	return fmt.Sprintf("message:%d", messageID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateMessage(ctx context.Context, messageID uint) {
	Invalidate(ctx, MessageKey(messageID))
}
