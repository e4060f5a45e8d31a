// Package seed imports property listings from JSON files.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/qri-io/jsonschema"

	dbfs "github.com/garnizeh/rentals/db"
	"github.com/garnizeh/rentals/internal/service"
	"github.com/garnizeh/rentals/pkg/models"
)

const (
	schemaFile  = "seed/property.schema.json"
	defaultFile = "seed/properties.json"
)

// ErrInvalidSeed is returned when a document does not match the import
// schema. Nothing is written in that case.
var ErrInvalidSeed = errors.New("invalid seed document")

// Result counts what an import did.
type Result struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// Importer validates property documents and adds them through the
// property service.
type Importer struct {
	schema *jsonschema.Schema
	svc    *service.PropertyService
	logger *slog.Logger
}

func NewImporter(svc *service.PropertyService, logger *slog.Logger) (*Importer, error) {
	raw, err := dbfs.SeedFiles.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("read seed schema: %w", err)
	}
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(raw, rs); err != nil {
		return nil, fmt.Errorf("compile seed schema: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Importer{schema: rs, svc: svc, logger: logger}, nil
}

// Import validates data as a whole, then adds each record in order.
// Records whose property type already exists are skipped.
func (im *Importer) Import(ctx context.Context, data []byte) (Result, error) {
	var res Result

	verrs, err := im.schema.ValidateBytes(ctx, data)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if len(verrs) > 0 {
		errs := make([]error, 0, len(verrs))
		for _, ke := range verrs {
			errs = append(errs, fmt.Errorf("%s: %s", ke.PropertyPath, ke.Message))
		}
		return res, fmt.Errorf("%w: %w", ErrInvalidSeed, errors.Join(errs...))
	}

	var props []models.Property
	if err := json.Unmarshal(data, &props); err != nil {
		return res, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	// every record is checked before the first write
	var invalid []error
	for i := range props {
		if err := props[i].Validate(); err != nil {
			invalid = append(invalid, fmt.Errorf("record %d: %w", i, err))
		}
	}
	if len(invalid) > 0 {
		return res, fmt.Errorf("%w: %w", ErrInvalidSeed, errors.Join(invalid...))
	}

	for i := range props {
		p := &props[i]
		if _, err := im.svc.Add(ctx, p); err != nil {
			if errors.Is(err, service.ErrDuplicate) {
				im.logger.Debug("seed record skipped", slog.Int("index", i), slog.String("type", p.PropertyType))
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("seed record %d: %w", i, err)
		}
		res.Inserted++
	}

	im.logger.Info("seed imported", slog.Int("inserted", res.Inserted), slog.Int("skipped", res.Skipped))
	return res, nil
}

// ImportFile imports the document at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read seed file: %w", err)
	}
	return im.Import(ctx, data)
}

// ImportDefault imports the listings bundled with the binary.
func (im *Importer) ImportDefault(ctx context.Context) (Result, error) {
	data, err := dbfs.SeedFiles.ReadFile(defaultFile)
	if err != nil {
		return Result{}, fmt.Errorf("read bundled seed: %w", err)
	}
	return im.Import(ctx, data)
}
