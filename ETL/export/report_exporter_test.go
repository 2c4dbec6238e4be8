package export

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_analytics/ETL/forecast"
	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

func testTransformedData() *models.TransformedData {
	return &models.TransformedData{
		DailyKPIs: []models.DailyKPIFact{
			{
				Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Revenue:     150,
				Orders:      2,
				ActiveUsers: 2,
				AOV:         75,
			},
		},
		CategoryDaily: []models.CategoryDailyFact{
			{
				Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Category: "books",
				Revenue:  150,
				Orders:   2,
			},
		},
		RFMScores: []models.UserRFMFact{
			{UserID: 1, RecencyDays: 1, Frequency: 3, Monetary: 600, R: 5, F: 5, M: 5, RFM: 555},
		},
		Metadata: models.RunMetadata{
			RunID:           "11111111-2222-3333-4444-555555555555",
			SnapshotTime:    time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC),
			OrdersProcessed: 4,
			UsersScored:     2,
		},
	}
}

func TestReportExportRoundtrip(t *testing.T) {
	exporter := NewReportExporter(t.TempDir(), utils.NewSilentLogger())
	data := testTransformedData()

	path, err := exporter.Export(data, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".json.sz"))

	bundle, err := ReadReport(path)
	require.NoError(t, err)

	assert.Equal(t, data.Metadata.RunID, bundle.RunID)
	assert.True(t, data.Metadata.SnapshotTime.Equal(bundle.SnapshotTime))
	assert.Equal(t, data.DailyKPIs, bundle.KPIsByDay)
	assert.Equal(t, data.CategoryDaily, bundle.CategoryDay)
	assert.Equal(t, data.RFMScores, bundle.RFMScores)
	assert.Nil(t, bundle.RevenueForecast)
}

func TestReportExportWithForecast(t *testing.T) {
	exporter := NewReportExporter(t.TempDir(), utils.NewSilentLogger())
	data := testTransformedData()

	revForecast := &forecast.RevenueForecast{
		ComputedAt:  time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC),
		Slope:       100,
		Intercept:   100,
		R2:          1,
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		Points: []forecast.ForecastPoint{
			{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), ForecastRevenue: 400},
		},
	}

	path, err := exporter.Export(data, revForecast)
	require.NoError(t, err)

	bundle, err := ReadReport(path)
	require.NoError(t, err)

	require.NotNil(t, bundle.RevenueForecast)
	assert.Equal(t, 100.0, bundle.RevenueForecast.Slope)
	assert.Equal(t, revForecast.Points, bundle.RevenueForecast.Points)
}

func TestReportFileIsCompressed(t *testing.T) {
	exporter := NewReportExporter(t.TempDir(), utils.NewSilentLogger())

	path, err := exporter.Export(testTransformedData(), nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Файл на диске не является сырым JSON
	assert.False(t, strings.HasPrefix(string(raw), "{"))
}

func TestReadReportMissingFile(t *testing.T) {
	_, err := ReadReport("/nonexistent/report.json.sz")
	assert.Error(t, err)
}
