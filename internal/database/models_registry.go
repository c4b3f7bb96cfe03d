package database

import "jokerclub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserRole{},
		&models.Tweet{},
		&models.Like{},
		&models.Retweet{},
		&models.Reply{},
		&models.Follow{},
		&models.Codeblock{},
		&models.CodeblockLink{},
		&models.CodeblockGrant{},
		&models.Notification{},
		&models.Product{},
		&models.ConsultingSession{},
	}
}
