package constant

const (
	ServiceName = "faceswap-api"
	Version     = "1.0.0"
)

type JobStatus string

const (
	JobStatusCreated        JobStatus = "CREATED"
	JobStatusUploaded       JobStatus = "UPLOADED"
	JobStatusCostEstimated  JobStatus = "COST_ESTIMATED"
	JobStatusCreditVerified JobStatus = "CREDIT_VERIFIED"
	JobStatusProcessing     JobStatus = "PROCESSING"
	JobStatusSucceeded      JobStatus = "SUCCEEDED"
	JobStatusFailed         JobStatus = "FAILED"
)

// statusRank orders the forward-only lifecycle. Failed is terminal and
// reachable from any non-terminal status.
var statusRank = map[JobStatus]int{
	JobStatusCreated:        0,
	JobStatusUploaded:       1,
	JobStatusCostEstimated:  2,
	JobStatusCreditVerified: 3,
	JobStatusProcessing:     4,
	JobStatusSucceeded:      5,
	JobStatusFailed:         6,
}

func (s JobStatus) CanTransition(to JobStatus) bool {
	if s == JobStatusSucceeded || s == JobStatusFailed {
		return false
	}
	if to == JobStatusFailed {
		return true
	}
	return statusRank[to] > statusRank[s]
}

func (s JobStatus) String() string {
	return string(s)
}

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

const (
	ResourceTypeImage = "image_generation"
	ResourceTypeVideo = "video_generation"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
