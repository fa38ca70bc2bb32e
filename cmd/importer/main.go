package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"addressbook-api/internal/config"
	"addressbook-api/internal/models"
	"addressbook-api/internal/repository"
)

func main() {
	file := flag.String("file", "", "Path to the CSV file to import (name,latitude,longitude)")
	configDir := flag.String("config", "configs", "Directory containing app.env")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	f, err := os.Open(*file)
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		os.Exit(1)
	}
	records, err := parseCSV(f)
	f.Close()
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(records))

	// Load config
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Open the store; migrations run on open
	repo, err := repository.Open(ctx, cfg.DBDriver, cfg.DBSource)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}

	if err := importAndClose(ctx, repo, records); err != nil {
		fmt.Printf("Error importing records: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d records\n", len(records))
}

func parseCSV(r io.Reader) ([]models.AddressCreate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []models.AddressCreate
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(record) < 3 {
			return nil, fmt.Errorf("line %d: invalid record length: %d, expected at least 3 columns", line, len(record))
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude: %s", line, record[1])
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude: %s", line, record[2])
		}

		records = append(records, models.AddressCreate{
			Name:      record[0],
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return records, nil
}

// importAndClose imports records and closes repo on every path.
func importAndClose(ctx context.Context, repo repository.Repository, records []models.AddressCreate) (err error) {
	defer func() {
		if cerr := repo.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close store: %w", cerr)
		}
	}()
	return importRecords(ctx, repo, records)
}

// importRecords inserts records, with COPY when the store supports it, and
// verifies that the store grew by exactly len(records).
func importRecords(ctx context.Context, repo repository.Repository, records []models.AddressCreate) error {
	before, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if bulk, ok := repo.(repository.BulkCreator); ok {
		if _, err := bulk.BulkCreate(ctx, records); err != nil {
			return err
		}
	} else {
		for i, r := range records {
			if _, err := repo.Create(ctx, r); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
		}
	}

	after, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if got := len(after) - len(before); got != len(records) {
		return fmt.Errorf("record count mismatch: expected %d new records, got %d", len(records), got)
	}

	if len(after) > 0 {
		sample := after[len(after)-1]
		fmt.Printf("Sample record: %d %s (%f, %f)\n", sample.ID, sample.Name, sample.Latitude, sample.Longitude)
	}
	return nil
}
