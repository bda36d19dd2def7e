package commands

import (
	"bufio"
	"encoding/csv"
	"io"
)

func createTextIterator(r io.Reader) *ScanIterator {
	scanner := bufio.NewScanner(r)

	return NewScanIterator(
		scanner.Scan,
		func() (string, error) {
			return scanner.Text(), nil
		},
		func() error {
			return scanner.Err()
		},
	)
}

func createCSVIterator(r io.Reader) *ScanIterator {

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	var lastError error
	var eof bool

	if checkSettings.CSV.skipRows > 0 {
		var toSkip = checkSettings.CSV.skipRows
		for ; toSkip > 0; toSkip-- {
			_, err := reader.Read()
			if err == io.EOF {
				eof = true
				break
			}

			if err != nil {
				lastError = err
			}
		}
	}

	return NewScanIterator(
		func() bool {
			return !eof
		},
		func() (string, error) {
			record, err := reader.Read()
			if err == io.EOF {
				eof = true
				return "", nil
			}

			if err != nil {
				return "", err
			}

			if uint64(len(record)) > checkSettings.CSV.column {
				return record[checkSettings.CSV.column], nil
			}

			return "", nil
		},
		func() error {
			return lastError
		},
	)
}

func NewScanIterator(next func() bool, value func() (string, error), close func() error) *ScanIterator {
	return &ScanIterator{
		next:  next,
		value: value,
		close: close,
	}
}

type ScanIterator struct {
	next  func() bool
	value func() (string, error)
	close func() error
}

func (i *ScanIterator) Next() bool {
	return i.next()
}

func (i *ScanIterator) Value() (string, error) {
	return i.value()
}

func (i *ScanIterator) Close() error {
	return i.close()
}
