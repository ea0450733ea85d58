// Data transfer objects for the repository-search service. One search
// response is a page object whose empty items sequence signals the end
// of the result set.

package searchapi

type RepoItem struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	IsFork        bool     `json:"isFork"`
	Stargazers    int64    `json:"stargazers"`
	Forks         int64    `json:"forks"`
	Watchers      int64    `json:"watchers"`
	OpenIssues    int64    `json:"openIssues"`
	TotalIssues   int64    `json:"totalIssues"`
	MainLanguage  string   `json:"mainLanguage"`
	Topics        []string `json:"topics"`
	License       string   `json:"license"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
	LastCommit    string   `json:"lastCommit"`
	DefaultBranch string   `json:"defaultBranch"`
}
