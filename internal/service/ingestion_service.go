package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"techgear-support-be/internal/dto"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/utils"
)

var knowledgeExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

type IngestReport struct {
	Sources   int
	Chunks    int
	Published []string
	Skipped   []string
}

type IIngestionService interface {
	IngestDirectory(ctx context.Context, dir string) (*IngestReport, error)
	IngestDocument(ctx context.Context, source, text string) (int, error)
}

type ingestionService struct {
	publisher    IPublisherService
	chunkSize    int
	chunkOverlap int
	logger       logger.ILogger
}

func NewIngestionService(publisher IPublisherService, chunkSize, chunkOverlap int, logger logger.ILogger) IIngestionService {
	return &ingestionService{
		publisher:    publisher,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// IngestDirectory publishes every knowledge file directly under dir, in name order.
func (is *ingestionService) IngestDirectory(ctx context.Context, dir string) (*IngestReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !knowledgeExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	report := &IngestReport{}
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return report, fmt.Errorf("failed to read %s: %w", name, err)
		}

		count, err := is.IngestDocument(ctx, name, string(content))
		if err != nil {
			return report, err
		}
		if count == 0 {
			report.Skipped = append(report.Skipped, name)
			continue
		}
		report.Sources++
		report.Chunks += count
		report.Published = append(report.Published, name)
	}

	is.logger.Info("INGEST", "Knowledge base published", map[string]interface{}{
		"dir":     dir,
		"sources": report.Sources,
		"chunks":  report.Chunks,
		"skipped": len(report.Skipped),
	})
	return report, nil
}

// IngestDocument chunks one source and publishes it as a single message.
func (is *ingestionService) IngestDocument(ctx context.Context, source, text string) (int, error) {
	chunks := utils.SplitText(text, is.chunkSize, is.chunkOverlap)
	if len(chunks) == 0 {
		is.logger.Warn("INGEST", "Empty source skipped", map[string]interface{}{"source": source})
		return 0, nil
	}

	err := is.publisher.PublishKnowledgeChunks(ctx, &dto.PublishKnowledgeChunksMessage{
		Source: source,
		Chunks: chunks,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to publish chunks of %s: %w", source, err)
	}

	is.logger.Debug("INGEST", "Source chunked", map[string]interface{}{
		"source": source,
		"chunks": len(chunks),
	})
	return len(chunks), nil
}
