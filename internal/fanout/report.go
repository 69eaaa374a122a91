package fanout

import "time"

// Report aggregates the counters of one fanout run. It is kept in memory
// for the status endpoint only; correctness of the run never depends on it.
type Report struct {
	TriggeredAt         time.Time         `json:"triggered_at"`
	DurationMillis      int64             `json:"duration_ms"`
	UsersProcessed      int               `json:"users_processed"`
	NotificationsSent   int               `json:"notifications_sent"`
	SendFailures        int               `json:"send_failures"`
	SubscriptionsPruned int               `json:"subscriptions_pruned"`
	UserErrors          map[string]string `json:"user_errors,omitempty"`
}
