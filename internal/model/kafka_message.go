package model

// RecordMessage is the Record shape sent to Kafka.
type RecordMessage struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Stargazers    int64    `json:"stargazers"`
	Forks         int64    `json:"forks"`
	Watchers      int64    `json:"watchers"`
	OpenIssues    int64    `json:"open_issues"`
	TotalIssues   int64    `json:"total_issues"`
	MainLanguage  string   `json:"main_language"`
	Topics        []string `json:"topics"`
	License       string   `json:"license"`
	RepoCreatedAt string   `json:"repo_created_at"`
	RepoUpdatedAt string   `json:"repo_updated_at"`
	LastCommit    string   `json:"last_commit"`
	DefaultBranch string   `json:"default_branch"`
	HasManifest   bool     `json:"has_manifest"`
	HasNativeCi   bool     `json:"has_native_ci"`
	HasOtherCi    bool     `json:"has_other_ci"`
	HasCi         bool     `json:"has_ci"`
}

// MessageFromRecord converts a record into its Kafka message form.
func MessageFromRecord(r Record) RecordMessage {
	return RecordMessage{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Stargazers:    r.Stargazers,
		Forks:         r.Forks,
		Watchers:      r.Watchers,
		OpenIssues:    r.OpenIssues,
		TotalIssues:   r.TotalIssues,
		MainLanguage:  r.MainLanguage,
		Topics:        r.Topics,
		License:       r.License,
		RepoCreatedAt: r.RepoCreatedAt,
		RepoUpdatedAt: r.RepoUpdatedAt,
		LastCommit:    r.LastCommit,
		DefaultBranch: r.DefaultBranch,
		HasManifest:   r.HasManifest,
		HasNativeCi:   r.HasNativeCi,
		HasOtherCi:    r.HasOtherCi,
		HasCi:         r.HasCi,
	}
}
