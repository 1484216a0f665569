package riskreport

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPrices is returned when a report is requested on an empty price table.
var ErrEmptyPrices = errors.New("no price data, nothing to report")

// SchemaError reports a raw price payload where no close-like field could be identified.
type SchemaError struct {
	Fields []string // observed field names, sorted
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("no Adj Close/Close field in price payload, got fields [%s]", strings.Join(e.Fields, ", "))
}

// NoDataError reports a valid price payload where every requested ticker is empty.
type NoDataError struct {
	Tickers []string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no usable close prices returned for [%s], check tickers, date range or API throttling", strings.Join(e.Tickers, ", "))
}
