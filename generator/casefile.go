package generator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedCaseFile is returned when a case file does not follow the
// count / records / method layout
var ErrMalformedCaseFile = errors.New("malformed case file")

// CaseFile is the parsed content of a case file
type CaseFile struct {
	Count   int
	Records []Record
	Method  int
}

// WriteCase writes the count line, one line per record and the method line
func WriteCase(w io.Writer, records []Record, method int) error {
	line := make([]byte, 0, 64)

	line = strconv.AppendInt(line[:0], int64(len(records)), 10)
	line = append(line, '\n')
	if _, err := w.Write(line); err != nil {
		return fmt.Errorf("failed to write count line: %w", err)
	}

	for i, r := range records {
		line = r.AppendText(line[:0])
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}

	line = strconv.AppendInt(line[:0], int64(method), 10)
	line = append(line, '\n')
	if _, err := w.Write(line); err != nil {
		return fmt.Errorf("failed to write method line: %w", err)
	}

	return nil
}

// ReadCaseFile parses a case file. The count line must match the number of
// record lines and the method line must be the last non-empty line.
func ReadCaseFile(r io.Reader) (*CaseFile, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	next := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				return line, true
			}
		}
		return "", false
	}

	header, ok := next()
	if !ok {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read case file: %w", err)
		}
		return nil, fmt.Errorf("%w: missing count line", ErrMalformedCaseFile)
	}
	count, err := strconv.Atoi(header)
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: line %d: invalid count %q", ErrMalformedCaseFile, lineNo, header)
	}

	cf := &CaseFile{Count: count, Records: make([]Record, 0, count)}
	for len(cf.Records) < count {
		line, ok := next()
		if !ok {
			break
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCaseFile, lineNo, err)
		}
		cf.Records = append(cf.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}
	if len(cf.Records) < count {
		return nil, fmt.Errorf("%w: count line says %d records, found %d and no method line",
			ErrMalformedCaseFile, count, len(cf.Records))
	}

	trailer, ok := next()
	if !ok {
		return nil, fmt.Errorf("%w: missing method line", ErrMalformedCaseFile)
	}
	method, err := strconv.Atoi(trailer)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: expected method code, got %q", ErrMalformedCaseFile, lineNo, trailer)
	}
	cf.Method = method

	if extra, ok := next(); ok {
		return nil, fmt.Errorf("%w: line %d: unexpected content after method line: %q", ErrMalformedCaseFile, lineNo, extra)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	return cf, nil
}

// ParseRecord parses a "label value rank" line. Value must carry exactly one fractional digit.
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	tenths, err := parseTenths(fields[1])
	if err != nil {
		return Record{}, err
	}

	rank, err := strconv.Atoi(fields[2])
	if err != nil {
		return Record{}, fmt.Errorf("invalid rank %q", fields[2])
	}

	return Record{Label: fields[0], Tenths: tenths, Rank: rank}, nil
}

func parseTenths(s string) (int, error) {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok || len(frac) != 1 || frac[0] < '0' || frac[0] > '9' {
		return 0, fmt.Errorf("invalid value %q: want one fractional digit", s)
	}
	if whole == "" || strings.TrimLeft(whole, "0123456789") != "" {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	w, err := strconv.Atoi(whole)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return w*10 + int(frac[0]-'0'), nil
}

// VerifyCaseFile reads the case file at path and checks its method trailer
func VerifyCaseFile(path string, method int) (*CaseFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open case file: %w", err)
	}
	defer file.Close()

	cf, err := ReadCaseFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cf.Method != method {
		return nil, fmt.Errorf("%s: %w: method line is %d, expected %d", path, ErrMalformedCaseFile, cf.Method, method)
	}

	return cf, nil
}
