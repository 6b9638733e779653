// Package exportfile streams message exports (JSONL, optionally gzip)
// for the importer. Malformed lines are skipped, not fatal
package exportfile

import (
	"bufio"
	"compress/gzip"
	"encoding/json/v2"
	"io"
	"os"

	"phishbowl/internal/platform/logger"
)

const maxScanTokenSize = 16 * 1024 * 1024

// Reader streams MessageExport items from a JSONL stream
type Reader struct {
	r       io.ReadCloser
	gz      *gzip.Reader
	sc      *bufio.Scanner
	err     error
	read    int
	skipped int
}

// Open opens path and sniffs for gzip by magic bytes
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rd, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return rd, nil
}

// NewReader wraps r, transparently decompressing gzip input
func NewReader(r io.ReadCloser) (*Reader, error) {
	br := bufio.NewReaderSize(r, 512*1024)

	var src io.Reader = br
	var gz *gzip.Reader
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err = gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		src = gz
	}

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 256*1024), maxScanTokenSize)
	return &Reader{r: r, gz: gz, sc: sc}, nil
}

// Next reads the next message; returns io.EOF when done
func (rd *Reader) Next() (MessageExport, error) {
	if rd.err != nil {
		return MessageExport{}, rd.err
	}
	for {
		if !rd.sc.Scan() {
			if err := rd.sc.Err(); err != nil {
				rd.err = err
				return MessageExport{}, err
			}
			rd.err = io.EOF
			return MessageExport{}, io.EOF
		}
		line := rd.sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var m MessageExport
		if err := json.Unmarshal(line, &m); err != nil {
			rd.skipped++
			continue
		}
		if m.Body == "" {
			rd.skipped++
			continue
		}
		rd.read++
		return m, nil
	}
}

// Stats reports how many lines parsed and how many were skipped
func (rd *Reader) Stats() (read, skipped int) { return rd.read, rd.skipped }

// Close closes the gzip layer (when present) and the source
func (rd *Reader) Close() error {
	var err error
	if rd.gz != nil {
		err = rd.gz.Close()
	}
	if cerr := rd.r.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if rd.skipped > 0 {
		logger.Named("exportfile").Warn().Int("skipped", rd.skipped).Msg("export lines skipped")
	}
	return err
}
