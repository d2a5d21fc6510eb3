package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/ianaindex"

	"sales-dashboard/internal/models"
)

const (
	batchSize  = 5000
	maxWorkers = 8
)

// Source column names.
const (
	ColumnDate        = "monthdate"
	ColumnQuantity    = "OrderQuantity"
	ColumnPrice       = "ProductPrice"
	ColumnProductName = "ProductName"
	ColumnCategory    = "CategoryName"
	ColumnRegion      = "Region"
)

var requiredColumns = []string{
	ColumnDate,
	ColumnQuantity,
	ColumnPrice,
	ColumnProductName,
	ColumnCategory,
	ColumnRegion,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"2006-01",
}

var (
	ErrEmptyFile          = errors.New("empty file")
	ErrNoRecords          = errors.New("no records found")
	ErrMissingColumn      = errors.New("missing required column")
	ErrUnknownEncoding    = errors.New("unknown character encoding")
	ErrUnknownDateFormat  = errors.New("unrecognised date format")
	ErrInvalidQuantity    = errors.New("quantity must be a plain number")
	ErrNegativeQuantity   = errors.New("quantity must not be negative")
	ErrFractionalQuantity = errors.New("quantity must be a whole number")
	ErrQuantityRange      = errors.New("quantity out of range")
)

var maxQuantity = decimal.NewFromInt(math.MaxInt)

// ParseError reports a value in the CSV that could not be converted.
// Line is 1-based and counts the header.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: column %s: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type LoadOptions struct {
	// Encoding is an IANA charset name. Empty means ISO-8859-1.
	Encoding string
}

type columnIndex map[string]int

// LoadOrders reads every order line from path and derives revenue. Any bad
// row fails the whole load.
func LoadOrders(ctx context.Context, path string, opts LoadOptions) ([]models.OrderRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ReadOrders(ctx, file, opts)
}

// ReadOrders is LoadOrders over an arbitrary reader.
func ReadOrders(ctx context.Context, r io.Reader, opts LoadOptions) ([]models.OrderRecord, error) {
	decoded, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	records := make([]models.OrderRecord, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				// +2: one for the header, one for 1-based lines.
				rec, err := parseRecord(rows[i], cols, i+2)
				if err != nil {
					return err
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

func decodeReader(r io.Reader, name string) (io.Reader, error) {
	if name == "" {
		name = "ISO-8859-1"
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
	return enc.NewDecoder().Reader(r), nil
}

func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return cols, nil
}

func parseRecord(row []string, cols columnIndex, line int) (models.OrderRecord, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[cols[name]])
	}

	rawDate := field(ColumnDate)
	date, err := parseDate(rawDate)
	if err != nil {
		return models.OrderRecord{}, &ParseError{Line: line, Column: ColumnDate, Value: rawDate, Err: err}
	}

	rawQty := field(ColumnQuantity)
	qty, err := parseQuantity(rawQty)
	if err != nil {
		return models.OrderRecord{}, &ParseError{Line: line, Column: ColumnQuantity, Value: rawQty, Err: err}
	}

	rawPrice := field(ColumnPrice)
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return models.OrderRecord{}, &ParseError{Line: line, Column: ColumnPrice, Value: rawPrice, Err: err}
	}

	return models.OrderRecord{
		Date:        date,
		Category:    field(ColumnCategory),
		ProductName: field(ColumnProductName),
		Quantity:    qty,
		Price:       price,
		Region:      field(ColumnRegion),
		Revenue:     decimal.NewFromInt(int64(qty)).Mul(price),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrUnknownDateFormat
}

// parseQuantity accepts plain integers and integral decimals such as "3.0".
// Exponent notation is rejected.
func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(s)
	switch {
	case err == nil:
		if n < 0 {
			return 0, ErrNegativeQuantity
		}
		return n, nil
	case errors.Is(err, strconv.ErrRange):
		if strings.HasPrefix(s, "-") {
			return 0, ErrNegativeQuantity
		}
		return 0, ErrQuantityRange
	}

	if strings.ContainsAny(s, "eE") {
		return 0, ErrInvalidQuantity
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidQuantity
	}
	if !d.IsInteger() {
		return 0, ErrFractionalQuantity
	}
	if d.IsNegative() {
		return 0, ErrNegativeQuantity
	}
	if d.GreaterThan(maxQuantity) {
		return 0, ErrQuantityRange
	}
	return int(d.IntPart()), nil
}
