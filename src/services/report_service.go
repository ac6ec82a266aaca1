package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/noonfolio/src/logger"
	"github.com/username/noonfolio/src/models"
	"github.com/username/noonfolio/src/parsers"
	"github.com/username/noonfolio/src/processors"
	"github.com/username/noonfolio/src/schema"
)

const (
	ckLoadedReport = "loaded_report_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// loadedReport couples the API-facing report with the resolved schema the
// trial and lookup operations need to address columns.
type loadedReport struct {
	report *models.CommissionReport
	schema *schema.ResolvedSchema
}

type reportServiceImpl struct {
	store               BlobStore
	commissionProcessor processors.CommissionProcessor
	lookupProcessor     processors.LookupProcessor
	exportService       ExportService
	reportCache         *cache.Cache
	dataPrefix          string
}

func NewReportService(
	store BlobStore,
	commissionProcessor processors.CommissionProcessor,
	lookupProcessor processors.LookupProcessor,
	exportService ExportService,
	reportCache *cache.Cache,
	dataPrefix string,
) ReportService {
	return &reportServiceImpl{
		store:               store,
		commissionProcessor: commissionProcessor,
		lookupProcessor:     lookupProcessor,
		exportService:       exportService,
		reportCache:         reportCache,
		dataPrefix:          dataPrefix,
	}
}

func (s *reportServiceImpl) dataPath(name string) string {
	return s.dataPrefix + "/" + name
}

func (s *reportServiceImpl) invalidate(name string) {
	s.reportCache.Delete(fmt.Sprintf(ckLoadedReport, name))
	logger.L.Info("Invalidated report cache", "file", name)
}

// getLoaded returns the cached report for a file or runs the full
// resolve -> classify -> aggregate pass. A store failure surfaces as-is and
// leaves no partial tables behind; each load builds fresh state.
func (s *reportServiceImpl) getLoaded(name string) (*loadedReport, error) {
	cacheKey := fmt.Sprintf(ckLoadedReport, name)
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for report", "file", name)
		return cached.(*loadedReport), nil
	}

	overallStartTime := time.Now()
	logger.L.Info("Report load START", "file", name)

	data, _, found, err := s.store.Get(s.dataPath(name))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	table, err := parsers.ParseAuto(data, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	resolved := schema.Resolve(table.Columns)
	resolved.Apply(table)
	processors.Annotate(table, resolved)
	partition := processors.Classify(table)

	report := &models.CommissionReport{
		LoadID:        uuid.New().String(),
		SourceFile:    name,
		GeneratedAt:   time.Now(),
		Schema:        resolved.Summary(),
		TotalRows:     len(table.Rows),
		UnmatchedRows: partition.Unmatched,
		FBB:           s.commissionProcessor.BuildFBB(partition.FBB, table.Columns, resolved),
		FBN:           s.commissionProcessor.BuildFBN(partition.FBN, table.Columns, resolved),
		Other:         s.commissionProcessor.BuildOther(partition.Other, table.Columns, resolved),
	}

	loaded := &loadedReport{report: report, schema: resolved}
	s.reportCache.Set(cacheKey, loaded, DefaultCacheExpiration)

	logger.L.Info("Report load END",
		"file", name,
		"loadID", report.LoadID,
		"rows", report.TotalRows,
		"fbb", len(report.FBB.Rows),
		"fbn", len(report.FBN.Rows),
		"other", len(report.Other.Rows),
		"unmatched", report.UnmatchedRows,
		"duration", time.Since(overallStartTime))
	return loaded, nil
}

func (s *reportServiceImpl) GetReport(name string) (*models.CommissionReport, error) {
	loaded, err := s.getLoaded(name)
	if err != nil {
		return nil, err
	}
	return loaded.report, nil
}

func (s *reportServiceImpl) ListFiles() ([]string, error) {
	return s.store.List(s.dataPrefix)
}

func (s *reportServiceImpl) UploadFile(name string, data []byte) error {
	if err := s.store.Put(s.dataPath(name), data, "upload "+name); err != nil {
		return err
	}
	s.invalidate(name)
	return nil
}

func (s *reportServiceImpl) DeleteFile(name string) error {
	if err := s.store.Delete(s.dataPath(name), "delete "+name); err != nil {
		return err
	}
	s.invalidate(name)
	return nil
}

func (s *reportServiceImpl) channelTable(loaded *loadedReport, ch models.Channel) (*models.Table, error) {
	switch ch {
	case models.ChannelFBB:
		return loaded.report.FBB, nil
	case models.ChannelFBN:
		return loaded.report.FBN, nil
	case models.ChannelOther:
		return loaded.report.Other, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
}

// ApplyTrialPrice recomputes trial_net for one aggregated row in the cached
// report. The committed base metrics are never touched, so re-running with
// the same price is a no-op.
func (s *reportServiceImpl) ApplyTrialPrice(name string, update TrialPriceUpdate) (models.Row, error) {
	loaded, err := s.getLoaded(name)
	if err != nil {
		return nil, err
	}
	table, err := s.channelTable(loaded, update.Channel)
	if err != nil {
		return nil, err
	}

	keyCol := loaded.schema.Column(schema.RoleAWB)
	if update.Channel == models.ChannelOther {
		keyCol = loaded.schema.Column(schema.RoleOrder)
	}

	key := strings.TrimSpace(update.Key)
	var matched []models.Row
	for _, row := range table.Rows {
		if strings.TrimSpace(models.CellString(row[keyCol])) == key {
			matched = append(matched, row)
		}
	}
	if len(matched) == 0 || update.RowIndex < 0 || update.RowIndex >= len(matched) {
		return nil, fmt.Errorf("%w: channel %s key %q row %d", ErrRowNotFound, update.Channel, update.Key, update.RowIndex)
	}

	row := matched[update.RowIndex]
	processors.ApplyTrialPrice(row, update.TrialPrice, update.Channel, loaded.schema)
	logger.L.Info("Applied trial price",
		"file", name, "channel", update.Channel, "key", update.Key, "trialPrice", update.TrialPrice)
	return row, nil
}

func (s *reportServiceImpl) BatchLookup(name string, keys []string) (models.BatchTotals, error) {
	loaded, err := s.getLoaded(name)
	if err != nil {
		return models.BatchTotals{}, err
	}
	report := loaded.report
	return s.lookupProcessor.Lookup(keys, report.FBB, report.FBN, report.Other, loaded.schema), nil
}

func (s *reportServiceImpl) ExportWorkbook(name string) ([]byte, error) {
	loaded, err := s.getLoaded(name)
	if err != nil {
		return nil, err
	}
	return s.exportService.BuildWorkbook(loaded.report)
}

// SaveModified exports the current (possibly trial-edited) tables and puts
// them back in the store under a derived name, never overwriting the source
// file.
func (s *reportServiceImpl) SaveModified(name string) (string, error) {
	blob, err := s.ExportWorkbook(name)
	if err != nil {
		return "", err
	}
	target := s.dataPath("modified_" + name)
	if err := s.store.Put(target, blob, fmt.Sprintf("Save modified results for %s", name)); err != nil {
		return "", err
	}
	return target, nil
}
