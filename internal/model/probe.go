package model

// ProbeResult holds what the contents lookups found for one candidate.
// Derived fresh per run, never cached.
type ProbeResult struct {
	HasManifest bool `json:"hasManifest"`
	HasNativeCi bool `json:"hasNativeCi"`
	HasOtherCi  bool `json:"hasOtherCi"`
	HasCi       bool `json:"hasCi"`
}
