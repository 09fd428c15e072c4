package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.TextField{
				Name: "reference",
				Max:  16,
			},
			&core.SelectField{
				Name:      "ticket_type",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"standard", "premium"},
			},
			&core.TextField{
				Name:     "buyer_name",
				Required: true,
			},
			&core.TextField{
				Name:     "buyer_phone",
				Required: true,
			},
			&core.NumberField{
				Name:    "quantity",
				OnlyInt: true,
				Min:     types.Pointer(1.0),
			},
			&core.SelectField{
				Name:      "status",
				MaxSelect: 1,
				Values:    []string{"sold", "cancelled"},
			},
			&core.DateField{
				Name: "sold_at",
			},
			&core.TextField{
				Name: "notes",
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

		// listings are always sorted by sale time
		collection.AddIndex("idx_tickets_sold_at", false, "sold_at", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
