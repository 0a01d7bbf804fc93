package migration

import (
	"fmt"

	"shopmydish/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.Product{},
		&entities.Unit{},
		&entities.Dish{},
		&entities.DishProduct{},
		&entities.UserProduct{},
		&entities.UserDish{},
		&entities.Menu{},
		&entities.MenuDish{},
		&entities.UserMenu{},
		&entities.ShoppingList{},
		&entities.ShoppingListItem{},
		&entities.BugReport{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}

	log.Info("Database migration complete")
	return nil
}
