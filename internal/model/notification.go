package model

const MaxNotifications = 5

// Notifications 最新的在前，最多保留 MaxNotifications 条
type Notifications []string

func (n Notifications) Push(msg string) Notifications {
	out := append(Notifications{msg}, n...)
	if len(out) > MaxNotifications {
		out = out[:MaxNotifications]
	}
	return out
}
