package firmware

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Reader reads the header of a container and then its data records, one
// at a time.
type Reader struct {
	// Header is parsed when the Reader is created
	Header Header

	scanner *bufio.Scanner
	closer  io.Closer
	line    int
	done    bool
}

// Open opens the container at path and parses its header.
// The caller must Close the returned Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f

	return r, nil
}

// NewReader parses the header from r. Records are read lazily by Next.
//
// Example:
//
//	r, err := firmware.NewReader(strings.NewReader(container))
func NewReader(r io.Reader) (*Reader, error) {
	fr := &Reader{scanner: bufio.NewScanner(r)}

	var lines [headerLines]string
	for i := range lines {
		line, ok, err := fr.readLine()
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: header ends after %d lines", ErrInvalidFirmwareFile, i)
		}
		lines[i] = line
	}

	checksum1, err := parseChecksum(lines[0])
	if err != nil {
		return nil, fmt.Errorf("%w: checksum1: %v", ErrInvalidFirmwareFile, err)
	}

	if lines[1] != Marker {
		return nil, fmt.Errorf("%w: marker %q, expected %q", ErrInvalidFirmwareFile, lines[1], Marker)
	}

	checksum2, err := parseChecksum(lines[4])
	if err != nil {
		return nil, fmt.Errorf("%w: checksum2: %v", ErrInvalidFirmwareFile, err)
	}

	fr.Header = Header{
		Checksum1: checksum1,
		Marker:    lines[1],
		Version:   lines[2],
		Hardware:  strings.Split(lines[3], ","),
		Checksum2: checksum2,
	}

	return fr, nil
}

// Next returns the next data record. After the end-of-data line it
// returns io.EOF, and keeps returning it.
//
// A line that does not start with ':' is ErrInvalidFirmwareData, and so
// is running out of input before the end-of-data line.
func (r *Reader) Next() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}

	line, ok, err := r.readLine()
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", r.line, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: missing %s after line %d", ErrInvalidFirmwareData, EndOfData, r.line)
	}

	if line == "" || line[0] != RecordPrefix {
		return nil, fmt.Errorf("%w: line %d does not start with %q", ErrInvalidFirmwareData, r.line, RecordPrefix)
	}

	if line == EndOfData {
		r.done = true
		return nil, io.EOF
	}

	record, err := hex.DecodeString(line[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFirmwareData, r.line, err)
	}

	return record, nil
}

// Line returns the number of the last line read, counting from 1.
func (r *Reader) Line() int {
	return r.line
}

// Close closes the underlying file when the Reader came from Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Reader) readLine() (string, bool, error) {
	if !r.scanner.Scan() {
		return "", false, r.scanner.Err()
	}
	r.line++
	return strings.TrimRight(r.scanner.Text(), " \t\r\n\v\f"), true, nil
}

func parseChecksum(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
