package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cuon/pkg/repository"
)

func TestCSVFileHeaderWrittenOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "escalations.csv")

	repo, err := repository.NewCSVFile(path)
	gt.NoError(t, err)
	gt.NoError(t, repo.AppendRecord(ctx, newRecord("jdoe", "JFK8", false, time.Now())))
	gt.NoError(t, repo.Close())

	// Reopening an existing artifact must not add a second header
	repo, err = repository.NewCSVFile(path)
	gt.NoError(t, err)
	gt.NoError(t, repo.AppendRecord(ctx, newRecord("jdoe", "JFK8", false, time.Now())))
	defer repo.Close()

	raw, err := os.ReadFile(path)
	gt.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	gt.Equal(t, 3, len(lines))
	gt.S(t, lines[0]).Contains("timestamp,submission_id,alias")
	gt.Equal(t, 1, strings.Count(string(raw), "timestamp,submission_id"))

	// Rows written before the reopen are still readable
	count, err := repo.CountByAlias(ctx, "jdoe")
	gt.NoError(t, err)
	gt.Equal(t, 2, count)
}

func TestCSVFileSkipsMalformedRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "escalations.csv")

	repo, err := repository.NewCSVFile(path)
	gt.NoError(t, err)
	defer repo.Close()

	gt.NoError(t, repo.AppendRecord(ctx, newRecord("jdoe", "JFK8", true, time.Now())))

	// Hand-corrupt the artifact the way a partial write or manual edit would
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	gt.NoError(t, err)
	_, err = f.WriteString("garbage,row\nnot-a-timestamp,x,jdoe,SEV1,Standard,,JFK8,,,,,,,true,missing_ticket,false,1,tag\n")
	gt.NoError(t, err)
	gt.NoError(t, f.Close())

	gt.NoError(t, repo.AppendRecord(ctx, newRecord("jdoe", "JFK8", true, time.Now())))

	// Bad rows are skipped, the rest still count
	count, err := repo.CountFalseEscalations(ctx, "jdoe", 30)
	gt.NoError(t, err)
	gt.Equal(t, 2, count)
}

func TestCSVFileSanitizesFields(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "escalations.csv")

	repo, err := repository.NewCSVFile(path)
	gt.NoError(t, err)
	defer repo.Close()

	record := newRecord("jdoe", "JFK8", false, time.Now())
	record.Description = "line one\nline two, with commas"
	gt.NoError(t, repo.AppendRecord(ctx, record))

	records, err := repo.ListRecords(ctx, time.Time{})
	gt.NoError(t, err)
	gt.Equal(t, 1, len(records))
	gt.Equal(t, "line one line two; with commas", records[0].Description)
}
