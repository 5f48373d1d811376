package alarm

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
)

var header = []string{"Hour", "Minute", "Week_Day"}

// Read parses alarms in CSV format. The first row must be a header naming the Hour, Minute and Week_Day columns,
// in any order. Rows holding values outside their valid range are skipped.
func Read(r io.Reader) (Alarms, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("csv: missing header")
	}

	columns := make(map[string]int, len(header))
	for i, name := range records[0] {
		columns[name] = i
	}
	index := make([]int, len(header))
	for i, name := range header {
		col, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("csv: missing column %q", name)
		}
		index[i] = col
	}

	alarms := make([]Alarm, 0, len(records)-1)
	for line, record := range records[1:] {
		var values [3]int
		for i, col := range index {
			if values[i], err = strconv.Atoi(record[col]); err != nil {
				return nil, fmt.Errorf("csv: line %d: %s: %w", line+2, header[i], err)
			}
		}
		if a := (Alarm{Hour: values[0], Minute: values[1], Weekday: values[2]}); a.valid() {
			alarms = append(alarms, a)
		}
	}
	deduped, _ := Dedupe(alarms)
	return deduped, nil
}

// Write writes the alarms in CSV format, header first.
func Write(w io.Writer, alarms Alarms) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(header)
	for _, a := range alarms {
		_ = cw.Write([]string{strconv.Itoa(a.Hour), strconv.Itoa(a.Minute), strconv.Itoa(a.Weekday)})
	}
	cw.Flush()
	return cw.Error()
}

// Load reads the alarms stored in path. A missing or malformed file results in no alarms.
func Load(path string, logger *slog.Logger) Alarms {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("no alarm file found", "path", path)
		} else {
			logger.Warn("failed to open alarm file", "path", path, "err", err)
		}
		return nil
	}
	defer func(f *os.File) { _ = f.Close() }(f)

	alarms, err := Read(f)
	if err != nil {
		logger.Warn("ignoring malformed alarm file", "path", path, "err", err)
		return nil
	}
	logger.Debug("alarms loaded", "path", path, "count", len(alarms))
	return alarms
}

// Save replaces the contents of path with the provided alarms.
func Save(path string, alarms Alarms) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = Write(f, alarms); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
