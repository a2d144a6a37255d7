package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"foodgram/entities"
	"foodgram/pkg/ingredient"

	"github.com/goccy/go-json"
)

const (
	IngredientsCSV  = "ingredients.csv"
	IngredientsJSON = "ingredients.json"
)

type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// LoadIngredients imports ingredients.csv and ingredients.json from dir.
// Missing files are skipped; rows already present are left untouched. It
// returns the number of inserted ingredients.
func LoadIngredients(ctx context.Context, repo ingredient.IngredientRepository, dir string) (int64, error) {
	var records []ingredientRecord
	found := false

	csvRecords, err := readCSV(filepath.Join(dir, IngredientsCSV))
	switch {
	case err == nil:
		found = true
		records = append(records, csvRecords...)
	case !errors.Is(err, os.ErrNotExist):
		return 0, err
	}

	jsonRecords, err := readJSON(filepath.Join(dir, IngredientsJSON))
	switch {
	case err == nil:
		found = true
		records = append(records, jsonRecords...)
	case !errors.Is(err, os.ErrNotExist):
		return 0, err
	}

	if !found {
		return 0, fmt.Errorf("no %s or %s in %s", IngredientsCSV, IngredientsJSON, dir)
	}

	return repo.UpsertIngredients(ctx, toIngredients(records))
}

func readCSV(path string) ([]ingredientRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []ingredientRecord
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		line++
		if len(row) < 2 {
			return nil, fmt.Errorf("%s:%d: expected name,measurement_unit", path, line)
		}
		// optional header
		if line == 1 && strings.EqualFold(row[0], "name") {
			continue
		}
		records = append(records, ingredientRecord{Name: row[0], MeasurementUnit: row[1]})
	}
	return records, nil
}

func readJSON(path string) ([]ingredientRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []ingredientRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// toIngredients trims the records and drops blanks and in-file duplicates.
func toIngredients(records []ingredientRecord) []entities.Ingredient {
	seen := make(map[[2]string]bool, len(records))
	ingredients := make([]entities.Ingredient, 0, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		unit := strings.TrimSpace(r.MeasurementUnit)
		if name == "" || unit == "" {
			continue
		}
		key := [2]string{name, unit}
		if seen[key] {
			continue
		}
		seen[key] = true
		ingredients = append(ingredients, entities.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return ingredients
}
