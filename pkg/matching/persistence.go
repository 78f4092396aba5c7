package matching

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// SaveEvents writes events to path in JSON Lines format, one JSON
// object per line.
func SaveEvents(events []Event, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeEvents(events, f)
}

// SaveEventsGzip writes events to path gzip-compressed, one JSON
// object per decompressed line. This is the only persistence variant
// beyond the line-delimited format the library otherwise guarantees.
func SaveEventsGzip(events []Event, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	gw := gzip.NewWriter(f)
	defer gw.Close()
	return writeEvents(events, gw)
}

func writeEvents(events []Event, w interface{ Write([]byte) (int, error) }) error {
	bw := bufio.NewWriter(w)
	for _, ev := range events {
		b, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadEvents reads a JSON Lines event log from path. Empty lines
// (after trimming whitespace) are skipped.
func LoadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readEvents(f)
}

// LoadEventsGzip reads a gzip-compressed JSON Lines event log.
func LoadEventsGzip(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return readEvents(gr)
}

func readEvents(r interface{ Read([]byte) (int, error) }) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	var events []Event
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Save writes the exchange's event log to path in JSON Lines format.
func (e *Exchange) Save(path string) error {
	return SaveEvents(e.events, path)
}

// SaveGzip writes the exchange's event log to path, gzip-compressed.
func (e *Exchange) SaveGzip(path string) error {
	return SaveEventsGzip(e.events, path)
}

// Load reads a saved event log from path and replays it into a fresh
// exchange.
func Load(path string, opts ...Option) (*Exchange, error) {
	events, err := LoadEvents(path)
	if err != nil {
		return nil, err
	}
	return Replay(events, opts...), nil
}

// LoadGzip reads a gzip-compressed saved event log and replays it.
func LoadGzip(path string, opts ...Option) (*Exchange, error) {
	events, err := LoadEventsGzip(path)
	if err != nil {
		return nil, err
	}
	return Replay(events, opts...), nil
}
