package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminAudit records an admin mutation with before/after snapshots.
// Attach it after Required + RequireAdmin so the actor is resolved.
func AdminAudit(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok {
			return c.Next() // Continue without logging if actor not resolved
		}

		// Parse resource ID from params if available
		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		var oldValue interface{}
		var newValue interface{}

		// Request body is the "new value" for mutating methods
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
			body := c.Body()
			if len(body) > 0 {
				json.Unmarshal(body, &newValue)
			}
		}

		// Capture existing state before updates and deletes
		if resourceID > 0 && c.Method() != fiber.MethodPost {
			switch resource {
			case "users":
				var u model.User
				if err := db.First(&u, resourceID).Error; err == nil {
					oldValue = u
				}
			case "categories":
				var cat model.AcademicCategory
				if err := db.First(&cat, resourceID).Error; err == nil {
					oldValue = cat
				}
			case "subjects":
				var sub model.AcademicSubject
				if err := db.First(&sub, resourceID).Error; err == nil {
					oldValue = sub
				}
			case "courses":
				var course model.Course
				if err := db.First(&course, resourceID).Error; err == nil {
					oldValue = course
				}
			}
		}

		err := c.Next()

		entry := model.AdminAuditLog{
			AdminID:     user.ID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			IPAddress:   c.IP(),
			UserAgent:   c.Get("User-Agent"),
			Description: c.Method() + " " + c.Path(),
		}
		if oldValue != nil {
			if b, merr := json.Marshal(oldValue); merr == nil {
				entry.OldValue = datatypes.JSON(b)
			}
		}
		if newValue != nil {
			if b, merr := json.Marshal(newValue); merr == nil {
				entry.NewValue = datatypes.JSON(b)
			}
		}

		// Audit failure must not fail the request itself
		db.Create(&entry)

		return err
	}
}
