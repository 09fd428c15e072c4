package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("event_config")

		collection.Fields.Add(
			&core.TextField{
				Name:     "singleton",
				Required: true,
			},
			&core.NumberField{
				Name:    "total_standard_tickets",
				OnlyInt: true,
				Min:     types.Pointer(0.0),
			},
			&core.NumberField{
				Name:    "total_premium_tickets",
				OnlyInt: true,
				Min:     types.Pointer(0.0),
			},
			&core.NumberField{
				Name: "standard_price",
				Min:  types.Pointer(0.0),
			},
			&core.NumberField{
				Name: "premium_price",
				Min:  types.Pointer(0.0),
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		// at most one config record
		collection.AddIndex("idx_event_config_singleton", true, "singleton", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("event_config")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
