package model

import (
	"time"

	"github.com/google/uuid"
)

func GenerateUUID() string {
	return uuid.New().String()
}

// Timestamp 与原前端一致，使用 RFC3339 (UTC) 字符串存储时间
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// dedupeStrings 保留首次出现的顺序，去掉空白项
func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
