package events

const (
	// SubjectRankingRequest is where callers submit asynchronous ranking
	// requests for the worker to pick up.
	SubjectRankingRequest = "dss.ranking.request"

	StreamName   = "RANKER_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectRankingCompleted(runID string) string { return "dss.ranking." + runID + ".completed" }
func SubjectRankingFailed(runID string) string    { return "dss.ranking." + runID + ".failed" }
