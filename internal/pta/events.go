package pta

// Event topics published by the Passive Traffic Analyzer.
const (
	TopicCaptureStarted = "pta.capture.started"
	TopicCaptureStopped = "pta.capture.stopped"
	TopicCaptureFailed  = "pta.capture.failed"
	TopicFlowObserved   = "pta.flow.observed"
)

// CaptureStartedEvent announces the capture loop coming up.
type CaptureStartedEvent struct {
	LocalIP string `json:"local_ip"`
}

// CaptureFailedEvent reports that the capture loop could not start or
// exited abnormally. The rest of the system continues regardless.
type CaptureFailedEvent struct {
	Error string `json:"error"`
}

// FlowObservedEvent carries a single flow snapshot. The gateway stream
// forwards this topic, but the Analyzer does not publish it: it publishes
// only the capture started/stopped/failed topics, and flows are read
// through Snapshot.
type FlowObservedEvent struct {
	Flow TrafficFlow `json:"flow"`
}
