package model

import (
	"context"
	"fmt"
	"time"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/pkg/db"
	"github.com/repoharvest/ci-crawler/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is a retained candidate: the search fields plus the probe
// flags that admitted it.
type Record struct {
	Model
	ID            int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	Name          string    `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Description   string    `json:"description" gorm:"column:description;type:text"`
	Stargazers    int64     `json:"stargazers" gorm:"column:stargazers;default:0"`
	Forks         int64     `json:"forks" gorm:"column:forks;default:0"`
	Watchers      int64     `json:"watchers" gorm:"column:watchers;default:0"`
	OpenIssues    int64     `json:"openIssues" gorm:"column:open_issues;default:0"`
	TotalIssues   int64     `json:"totalIssues" gorm:"column:total_issues;default:0"`
	MainLanguage  string    `json:"mainLanguage" gorm:"column:main_language;type:varchar(255)"`
	Topics        []string  `json:"topics" gorm:"column:topics;serializer:json"`
	License       string    `json:"license" gorm:"column:license;type:varchar(255)"`
	RepoCreatedAt string    `json:"repoCreatedAt" gorm:"column:repo_created_at;type:varchar(64)"`
	RepoUpdatedAt string    `json:"repoUpdatedAt" gorm:"column:repo_updated_at;type:varchar(64)"`
	LastCommit    string    `json:"lastCommit" gorm:"column:last_commit;type:varchar(64)"`
	DefaultBranch string    `json:"defaultBranch" gorm:"column:default_branch;type:varchar(255)"`
	HasManifest   bool      `json:"hasManifest" gorm:"column:has_manifest;default:false"`
	HasNativeCi   bool      `json:"hasNativeCi" gorm:"column:has_native_ci;default:false"`
	HasOtherCi    bool      `json:"hasOtherCi" gorm:"column:has_other_ci;default:false"`
	HasCi         bool      `json:"hasCi" gorm:"column:has_ci;default:false"`
	CreatedAt     time.Time `json:"-" gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"-" gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func NewRecord(config *cfg.Config, logger log.Logger, db *db.Mysql) (*Record, error) {
	record := &Record{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}
	return record, nil
}

func (r *Record) TableName() string {
	return "records"
}

// FromCandidate projects a candidate and its probe result into a record.
func FromCandidate(c Candidate, p ProbeResult) Record {
	return Record{
		ID:            c.ID,
		Name:          TruncateString(c.Name, 250),
		Description:   c.Description,
		Stargazers:    c.Stargazers,
		Forks:         c.Forks,
		Watchers:      c.Watchers,
		OpenIssues:    c.OpenIssues,
		TotalIssues:   c.TotalIssues,
		MainLanguage:  c.MainLanguage,
		Topics:        c.Topics,
		License:       c.License,
		RepoCreatedAt: c.CreatedAt,
		RepoUpdatedAt: c.UpdatedAt,
		LastCommit:    c.LastCommit,
		DefaultBranch: c.DefaultBranch,
		HasManifest:   p.HasManifest,
		HasNativeCi:   p.HasNativeCi,
		HasOtherCi:    p.HasOtherCi,
		HasCi:         p.HasCi,
	}
}

func (r *Record) Create(record *Record) error {
	ctx := context.Background()

	db, err := r.Mysql.Db()
	if err != nil {
		r.Logger.Error(ctx, "Failed to get database connection: %v", err)
		return err
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stargazers", "forks", "watchers", "open_issues", "total_issues",
			"has_manifest", "has_native_ci", "has_other_ci", "has_ci", "updated_at",
		}),
	}).Create(record).Error; err != nil {
		r.Logger.Error(ctx, "Failed to create record: %v", err)
		return err
	}

	r.Logger.Info(ctx, "Successfully created record for %s", record.Name)
	return nil
}

func (r *Record) CreateBatch(messages []RecordMessage) error {
	db, err := r.Mysql.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	records := make([]Record, 0, len(messages))
	now := time.Now()

	for _, msg := range messages {
		records = append(records, Record{
			ID:            msg.ID,
			Name:          msg.Name,
			Description:   msg.Description,
			Stargazers:    msg.Stargazers,
			Forks:         msg.Forks,
			Watchers:      msg.Watchers,
			OpenIssues:    msg.OpenIssues,
			TotalIssues:   msg.TotalIssues,
			MainLanguage:  msg.MainLanguage,
			Topics:        msg.Topics,
			License:       msg.License,
			RepoCreatedAt: msg.RepoCreatedAt,
			RepoUpdatedAt: msg.RepoUpdatedAt,
			LastCommit:    msg.LastCommit,
			DefaultBranch: msg.DefaultBranch,
			HasManifest:   msg.HasManifest,
			HasNativeCi:   msg.HasNativeCi,
			HasOtherCi:    msg.HasOtherCi,
			HasCi:         msg.HasCi,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"stargazers", "forks", "watchers", "open_issues", "total_issues",
				"has_manifest", "has_native_ci", "has_other_ci", "has_ci", "updated_at",
			}),
		}).CreateInBatches(records, 100)

		if result.Error != nil {
			return fmt.Errorf("failed to batch create records: %w", result.Error)
		}

		return nil
	})
}
