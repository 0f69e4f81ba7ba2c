package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteDataset serializes the dataset as one indented JSON document at path,
// creating parent directories as needed.
func WriteDataset(dataset Dataset, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(dataset); err != nil {
		file.Close()
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return file.Close()
}

// ReadDataset loads a dataset written by WriteDataset or authored by hand.
func ReadDataset(path string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var ds Dataset
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return ds, nil
}
