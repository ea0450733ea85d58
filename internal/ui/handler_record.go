package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/repoharvest/ci-crawler/internal/model"
)

// RecordView is the record shape served to clients
type RecordView struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Stargazers   int64    `json:"stargazers"`
	Forks        int64    `json:"forks"`
	Watchers     int64    `json:"watchers"`
	OpenIssues   int64    `json:"openIssues"`
	MainLanguage string   `json:"mainLanguage"`
	Topics       []string `json:"topics"`
	License      string   `json:"license"`
	LastCommit   string   `json:"lastCommit"`
	HasManifest  bool     `json:"hasManifest"`
	HasNativeCi  bool     `json:"hasNativeCi"`
	HasOtherCi   bool     `json:"hasOtherCi"`
	HasCi        bool     `json:"hasCi"`
}

// GetRecords returns a page of harvested records as JSON
func (h *Handler) getRecords(w http.ResponseWriter, r *http.Request) {
	// Parse query parameters for pagination
	pageStr := r.URL.Query().Get("page")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	pageSizeStr := r.URL.Query().Get("pageSize")
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	search := r.URL.Query().Get("search")
	offset := (page - 1) * pageSize
	query := h.db.Offset(offset).Limit(pageSize).Order("stargazers DESC")

	// Search query
	if search != "" {
		search = "%" + search + "%"
		query = query.Where("name LIKE ?", search)
	}

	var records []model.Record
	result := query.Find(&records)
	if result.Error != nil {
		h.Logger.Error(r.Context(), "Failed to fetch records: %v", result.Error)
		http.Error(w, "Failed to fetch records", http.StatusInternalServerError)
		return
	}

	//
	var totalCount int64
	countQuery := h.db.Model(&model.Record{})
	if search != "" {
		countQuery = countQuery.Where("name LIKE ?", search)
	}
	countQuery.Count(&totalCount)

	// Response format
	var views []RecordView
	for _, record := range records {
		views = append(views, RecordView{
			ID:           record.ID,
			Name:         record.Name,
			Description:  record.Description,
			Stargazers:   record.Stargazers,
			Forks:        record.Forks,
			Watchers:     record.Watchers,
			OpenIssues:   record.OpenIssues,
			MainLanguage: record.MainLanguage,
			Topics:       record.Topics,
			License:      record.License,
			LastCommit:   record.LastCommit,
			HasManifest:  record.HasManifest,
			HasNativeCi:  record.HasNativeCi,
			HasOtherCi:   record.HasOtherCi,
			HasCi:        record.HasCi,
		})
	}

	//
	response := map[string]interface{}{
		"records": views,
		"pagination": map[string]interface{}{
			"page":       page,
			"pageSize":   pageSize,
			"totalCount": totalCount,
			"totalPages": (totalCount + int64(pageSize) - 1) / int64(pageSize),
		},
	}

	// JSON response
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.Logger.Error(r.Context(), "Failed to encode JSON response: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// GetCount returns the total number of harvested records
func (h *Handler) getCount(w http.ResponseWriter, r *http.Request) {
	var totalCount int64
	if err := h.db.Model(&model.Record{}).Count(&totalCount).Error; err != nil {
		h.Logger.Error(r.Context(), "Failed to count records: %v", err)
		http.Error(w, "Failed to count records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]int64{"count": totalCount}); err != nil {
		h.Logger.Error(r.Context(), "Failed to encode JSON response: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
