package application

// SubmitResponse - body returned by POST /submit
type SubmitResponse struct {
	Status string      `json:"status"`
	Data   *Submission `json:"data"`
}

// HealthResponse - body returned by GET /
type HealthResponse struct {
	Status string `json:"status"`
}

// SnapshotResponse - body returned by POST /snapshots
type SnapshotResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

const (
	StatusSuccess    = "success"
	StatusAPIRunning = "API running"
)
