package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultWindow is how many trailing bytes Read scans.
const DefaultWindow = 64 * 1024

// Read returns at most maxLines from the end of the file at path, looking
// only at the last DefaultWindow bytes. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	return ReadWindow(path, maxLines, DefaultWindow)
}

// ReadWindow is Read with an explicit window size. When the window starts
// mid-file, the first (partial) line in it is dropped.
func ReadWindow(path string, maxLines int, window int64) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	offset := int64(0)
	if window > 0 && info.Size() > window {
		offset = info.Size() - window
		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek log: %w", err)
		}
	}

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	skipPartial := offset > 0
	for scanner.Scan() {
		if skipPartial {
			skipPartial = false
			continue
		}
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
