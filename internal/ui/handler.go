package ui

import (
	"encoding/json"
	"net/http"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/internal/model"
	"github.com/repoharvest/ci-crawler/pkg/db"
	"github.com/repoharvest/ci-crawler/pkg/log"
	"gorm.io/gorm"
)

// Handler manages HTTP requests for the report server
type Handler struct {
	Logger   log.Logger
	Config   *cfg.Config
	MySQL    *db.Mysql
	RecordMd *model.Record
	db       *gorm.DB
}

// NewHandler creates a new report handler
func NewHandler(logger log.Logger, config *cfg.Config, mysql *db.Mysql) (*Handler, error) {
	recordMd, _ := model.NewRecord(config, logger, mysql)

	db, err := mysql.Db()
	if err != nil {
		return nil, err
	}

	return &Handler{
		Logger:   logger,
		Config:   config,
		MySQL:    mysql,
		RecordMd: recordMd,
		db:       db,
	}, nil
}

// RegisterRoutes sets up the HTTP routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/records", h.getRecords)
	mux.HandleFunc("/api/records/count", h.getCount)
	mux.HandleFunc("/api/health", h.getHealth)
}

func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
