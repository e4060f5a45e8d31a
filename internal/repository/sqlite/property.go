package sqlite

import (
	"fmt"
	"log/slog"

	"github.com/garnizeh/rentals/internal/db"
	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
)

// PropertySchema maps models.Property onto the properties table.
var PropertySchema = Schema[models.Property]{
	Table: repository.TableProperties,
	Columns: []Column{
		{Name: "property_type", Type: Text, NotNull: true, Indexed: true},
		{Name: "bedrooms", Type: Integer, NotNull: true},
		{Name: "date_time", Type: Text, NotNull: true},
		{Name: "monthly_rent_price", Type: Integer, NotNull: true},
		{Name: "furniture_types", Type: Text},
		{Name: "notes", Type: Text},
		{Name: "reporter_name", Type: Text, NotNull: true},
		{Name: "description", Type: Text},
		{Name: "image", Type: Text},
	},
	Encode: encodeProperty,
	Decode: decodeProperty,
}

func encodeProperty(p *models.Property) Row {
	return Row{
		"property_type":      p.PropertyType,
		"bedrooms":           int64(p.Bedrooms),
		"date_time":          p.DateTime,
		"monthly_rent_price": int64(p.MonthlyRentPrice),
		"furniture_types":    string(p.FurnitureTypes),
		"notes":              p.Notes,
		"reporter_name":      p.ReporterName,
		"description":        p.Description,
		"image":              p.Image,
	}
}

func decodeProperty(row Row) (*models.Property, error) {
	var (
		p   models.Property
		err error
	)
	get := func(name string, dst any) {
		if err != nil {
			return
		}
		err = field(row, name, dst)
	}

	var bedrooms, rent int64
	var furniture string
	get("id", &p.ID)
	get("property_type", &p.PropertyType)
	get("bedrooms", &bedrooms)
	get("date_time", &p.DateTime)
	get("monthly_rent_price", &rent)
	get("furniture_types", &furniture)
	get("notes", &p.Notes)
	get("reporter_name", &p.ReporterName)
	get("description", &p.Description)
	get("image", &p.Image)
	if err != nil {
		return nil, err
	}

	p.Bedrooms = int(bedrooms)
	p.MonthlyRentPrice = int(rent)
	p.FurnitureTypes = models.FurnitureType(furniture)
	return &p, nil
}

// NewPropertyStore returns an uninitialized store for the properties table.
func NewPropertyStore(conn *db.DB, logger *slog.Logger) (*Store[models.Property], error) {
	return NewStore(conn, PropertySchema, logger)
}

// field copies row[name] into dst, which must be *int64 or *string. A
// missing entry leaves dst untouched.
func field(row Row, name string, dst any) error {
	v, ok := row[name]
	if !ok || v == nil {
		return nil
	}
	switch d := dst.(type) {
	case *int64:
		n, ok := v.(int64)
		if !ok {
			return fmt.Errorf("column %s: want integer, got %T", name, v)
		}
		*d = n
	case *string:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s: want text, got %T", name, v)
		}
		*d = s
	default:
		return fmt.Errorf("column %s: unsupported destination %T", name, dst)
	}
	return nil
}
