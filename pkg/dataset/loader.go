package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ritzau/ecolink/pkg/logging"
)

// Column names of the corridor dataset
const (
	ColSource      = "Source"
	ColDestination = "Destination"
	ColDistance    = "Distance"
	ColDistanceKm  = "Distance (km)"
	ColRisk        = "Risk Level"
	ColSourceLat   = "Source_Latitude"
	ColSourceLon   = "Source_Longitude"
	ColSourceState = "Source_State"
	ColDestLat     = "Destination_Latitude"
	ColDestLon     = "Destination_Longitude"
	ColDestState   = "Destination_State"
)

var requiredColumns = []string{
	ColSource, ColDestination, ColDistance, ColRisk,
	ColSourceLat, ColSourceLon, ColSourceState,
	ColDestLat, ColDestLon, ColDestState,
}

// Endpoint is one end of a corridor row with its geographic attributes
type Endpoint struct {
	Name      string
	Latitude  float64
	Longitude float64
	State     string
}

// Record is a single validated dataset row
type Record struct {
	Source      Endpoint
	Destination Endpoint
	Distance    float64 // km
	Risk        int
}

// Load reads the dataset at path and returns its rows in file order
func Load(path string) ([]Record, error) {
	logger := logging.New("dataset")

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	records, err := Parse(f, path)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded dataset", "path", path, "rows", len(records))
	return records, nil
}

// Parse reads comma-separated rows from r. The first row must be a header
// naming every required column; column order is free. name is only used
// in error messages.
func Parse(r io.Reader, name string) ([]Record, error) {
	cr := csv.NewReader(r)
	// Every row must have as many fields as the header
	cr.FieldsPerRecord = 0
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: name, Err: errors.New("empty dataset")}
	}
	if err != nil {
		return nil, csvParseError(name, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, &ParseError{Path: name, Line: 1, Err: err}
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvParseError(name, err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(row, index)
		if err != nil {
			var ce *cellError
			if errors.As(err, &ce) {
				return nil, &ParseError{Path: name, Line: line, Column: ce.column, Err: ce.err}
			}
			return nil, &ParseError{Path: name, Line: line, Err: err}
		}
		records = append(records, rec)
	}

	return records, nil
}

// columnIndex maps required column names to their position in header
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		index[h] = i
	}

	// Exports from the survey spreadsheet name the column "Distance (km)"
	if _, ok := index[ColDistance]; !ok {
		if i, ok := index[ColDistanceKm]; ok {
			index[ColDistance] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

type cellError struct {
	column string
	err    error
}

func (e *cellError) Error() string { return fmt.Sprintf("column %q: %v", e.column, e.err) }

func parseRow(row []string, index map[string]int) (Record, error) {
	cell := func(col string) string {
		return strings.TrimSpace(row[index[col]])
	}
	number := func(col string) (float64, error) {
		v, err := strconv.ParseFloat(cell(col), 64)
		if err != nil {
			return 0, &cellError{column: col, err: err}
		}
		return v, nil
	}

	var rec Record
	var err error

	rec.Source.Name = cell(ColSource)
	rec.Destination.Name = cell(ColDestination)
	if rec.Source.Name == "" {
		return Record{}, &cellError{column: ColSource, err: errors.New("empty name")}
	}
	if rec.Destination.Name == "" {
		return Record{}, &cellError{column: ColDestination, err: errors.New("empty name")}
	}

	if rec.Distance, err = number(ColDistance); err != nil {
		return Record{}, err
	}
	if rec.Risk, err = parseRisk(cell(ColRisk)); err != nil {
		return Record{}, &cellError{column: ColRisk, err: err}
	}

	if rec.Source.Latitude, err = number(ColSourceLat); err != nil {
		return Record{}, err
	}
	if rec.Source.Longitude, err = number(ColSourceLon); err != nil {
		return Record{}, err
	}
	if rec.Destination.Latitude, err = number(ColDestLat); err != nil {
		return Record{}, err
	}
	if rec.Destination.Longitude, err = number(ColDestLon); err != nil {
		return Record{}, err
	}
	rec.Source.State = cell(ColSourceState)
	rec.Destination.State = cell(ColDestState)

	return rec, nil
}

// parseRisk accepts integers and integral floats such as "2.0"
func parseRisk(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("risk level %q is not an integer", s)
	}
	return int(f), nil
}

func csvParseError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Path: name, Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Path: name, Err: err}
}
