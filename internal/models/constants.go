package models

const (
	// SessionUserKey is the persisted key holding the serialized user.
	SessionUserKey = "user"

	// SessionAuthKey is the persisted key holding the authenticated flag.
	SessionAuthKey = "isAuthenticated"

	// SessionAuthValue is the literal stored under SessionAuthKey.
	SessionAuthValue = "true"

	// DefaultSessionTTL время жизни сессии в Redis
	DefaultSessionTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultPageLimit размер страницы списка по умолчанию
	DefaultPageLimit = 10

	// DefaultSortOrder применяется, когда задан только ключ сортировки
	DefaultSortOrder = "asc"

	// HotelsCacheTTL время жизни кэша отелей
	HotelsCacheTTL = 30 * 60 // 30 минут в секундах

	// WorkerQueueSize размер очереди воркера экспорта
	WorkerQueueSize = 128
)
