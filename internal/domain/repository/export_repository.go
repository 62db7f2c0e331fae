package repository

import (
	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportToCSV(report entity.ForecastReport, filename string, outputDir string) (string, error)
	ExportToJSON(report entity.ForecastReport, filename string, outputDir string) (string, error)
	ExportToPDF(report entity.ForecastReport, filename string, outputDir string) (string, error)
}
