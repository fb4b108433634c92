package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sadopc/levelup/internal/bulk"
)

// ReadTable tokenizes a CSV file into a header row and data rows. Rows may have
// fewer or more cells than the header; the bulk parser tolerates both.
func ReadTable(path string) (bulk.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return bulk.Table{}, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()
	return ParseTable(f)
}

func ParseTable(r io.Reader) (bulk.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return bulk.Table{}, errors.New("csv file is empty")
	}
	if err != nil {
		return bulk.Table{}, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := bulk.Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return bulk.Table{}, fmt.Errorf("read csv: %w", err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}
