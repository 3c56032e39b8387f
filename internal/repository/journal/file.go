package journal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/safety-checkin/internal/config"
	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	pb "github.com/oshokin/safety-checkin/internal/pb/v1"
)

// Repository defines persistence operations for notices.
type Repository interface {
	Append(ctx context.Context, notice *domain.Notice) error
	ReadAll(ctx context.Context) ([]*domain.Notice, error)
}

// FileJournal appends notices to a JSON-lines file on disk.
// Lines are produced and consumed via protojson to stay compatible with the
// Struct messages served over gRPC.
type FileJournal struct {
	// path is the filesystem location of the journal.
	path string
	// mu serialises appends and reads.
	mu sync.Mutex
}

var (
	// ErrNotFound is returned when the journal file does not exist yet.
	ErrNotFound = errors.New("journal not found")
	// errNilNotice is returned when Append receives nothing to write.
	errNilNotice = errors.New("notice is nil")
)

// NewFileJournal creates a journal that appends to the provided path.
func NewFileJournal(path string) *FileJournal {
	return &FileJournal{
		path: filepath.Clean(path),
	}
}

// Append writes the notice as a single line.
func (j *FileJournal) Append(_ context.Context, notice *domain.Notice) error {
	if notice == nil {
		return errNilNotice
	}

	line, err := protojson.MarshalOptions{EmitUnpopulated: true}.Marshal(pb.EncodeNotice(notice))
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}

	// protojson may emit spaces but never newlines in single-line mode.
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	if _, err = file.Write(line); err != nil {
		_ = file.Close()

		return fmt.Errorf("write journal: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}

	return nil
}

// ReadAll returns every journaled notice in append order.
func (j *FileJournal) ReadAll(_ context.Context) ([]*domain.Notice, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	contents, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read journal: %w", err)
	}

	var (
		notices []*domain.Notice
		scanner = bufio.NewScanner(bytes.NewReader(contents))
		number  int
	)

	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), len(contents)+1)

	for scanner.Scan() {
		number++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var message structpb.Struct
		if err = protojson.Unmarshal(line, &message); err != nil {
			return nil, fmt.Errorf("decode journal line %d: %w", number, err)
		}

		notices = append(notices, pb.DecodeNotice(&message))
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}

	return notices, nil
}
