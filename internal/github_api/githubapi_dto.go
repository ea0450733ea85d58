// Data transfer objects for the GitHub API endpoints the pipeline
// consumes: directory listings and the global quota status.

package githubapi

type ContentEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type RateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}
