package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	CafeKeyPrefix       = "cafe:%d"
	CafeListKeyPrefix   = "cafes:city:%s"
	VisitKeyPrefix      = "visit:%d"
	FriendListKeyPrefix = "user:%d:friends"
)

const (
	UserTTL       = 5 * time.Minute
	CafeTTL       = 30 * time.Minute
	CafeListTTL   = 10 * time.Minute
	VisitTTL      = 2 * time.Minute
	FriendListTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func CafeKey(cafeID uint) string {
	return fmt.Sprintf(CafeKeyPrefix, cafeID)
}

func CafeListKey(city string) string {
	return fmt.Sprintf(CafeListKeyPrefix, city)
}

func VisitKey(visitID uint) string {
	return fmt.Sprintf(VisitKeyPrefix, visitID)
}

func FriendListKey(userID uint) string {
	return fmt.Sprintf(FriendListKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateCafe(ctx context.Context, cafeID uint) {
	Invalidate(ctx, CafeKey(cafeID))
}

func InvalidateVisit(ctx context.Context, visitID uint) {
	Invalidate(ctx, VisitKey(visitID))
}

func InvalidateFriendList(ctx context.Context, userID uint) {
	Invalidate(ctx, FriendListKey(userID))
}
