package audit

import (
	"encoding/json"
	"log"

	"greenfund/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Log records an action against an optional user id. Failures are logged
// and swallowed; an audit write never affects the action it describes.
func Log(db *gorm.DB, userID uint, action string, metadata map[string]interface{}) {
	entry := models.AuditLog{
		UserID: userID,
		Action: action,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			log.Printf("[AUDIT] Error marshalling metadata for %s: %v", action, err)
		} else {
			entry.Metadata = datatypes.JSON(raw)
		}
	}

	if err := db.Create(&entry).Error; err != nil {
		log.Printf("[AUDIT] Error recording %s: %v", action, err)
	}
}
