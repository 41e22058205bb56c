package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
	StoreRedis  = "redis"
)

const (
	AIProviderOpenAI    = "openai"
	AIProviderAnthropic = "anthropic"
)

// DeviceHeader 选择请求所属的存储命名空间
const DeviceHeader = "X-Device-ID"

// gin.Context 中的键
const (
	DeviceContextKey = "device"
	EmailContextKey  = "email"
)

// 头像上传
const (
	MimeImage          = "image/"
	MaxAvatarSizeBytes = 2 << 20
)

var AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
