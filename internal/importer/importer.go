// Package importer turns platform exports (CSV or xlsx) into record batches.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/platform"
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrMissingColumns  = errors.New("missing required columns")
)

type Service struct {
	loc *time.Location
	log *logger.Logger
}

// NewService returns an importer that reads zone-less timestamps in loc.
func NewService(loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{loc: loc, log: log}
}

// Import parses an export for platform p. The filename extension picks the
// reader. Rows that cannot be parsed are skipped and counted on the batch.
func (s *Service) Import(ctx context.Context, p platform.Platform, filename string, r io.Reader) (*platform.Batch, error) {
	profile, ok := profiles[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
	}

	tbl, err := readTable(filename, r)
	if err != nil {
		return nil, err
	}

	cols, headerIdx, ok := detectHeader(profile, tbl.rows)
	if !ok {
		return nil, fmt.Errorf("%w: %s export needs %s", ErrMissingColumns, p, strings.Join(profile.required(), ", "))
	}

	ctx = s.log.WithFields(ctx, map[string]any{
		"platform": string(p),
		"file":     filename,
		"charset":  tbl.charset,
	})

	batch := &platform.Batch{Platform: p}
	parse := rowParsers[p]

	for i, row := range tbl.rows[headerIdx+1:] {
		if blank(row) {
			continue
		}

		if err := parse(batch, cols, row, s.loc); err != nil {
			batch.Skipped++

			s.log.Debug(s.log.WithFields(ctx, map[string]any{
				"line":   headerIdx + i + 2,
				"reason": err.Error(),
			}), "skipping row")
		}
	}

	dedupe(batch)

	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"records":    batch.Len(),
		"skipped":    batch.Skipped,
		"duplicates": batch.Duplicates,
	}), "export parsed")

	return batch, nil
}
