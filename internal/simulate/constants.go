package simulate

import "time"

// Pipeline drain constants.
const (
	// drainPollInterval is how often the queue length is re-checked.
	drainPollInterval = 20 * time.Millisecond
	// drainTimeout bounds how long the runner waits for the queue to empty.
	drainTimeout = 10 * time.Second
	// settleDelay gives in-flight worker submissions time to land once the
	// queue reads empty.
	settleDelay = 100 * time.Millisecond
)

// Autoplayer constants.
const (
	// transitionBuffer sizes the per-match state notification channel.
	transitionBuffer = 16
	// statePollInterval is how often a waiting autoplayer re-reads the
	// controller state in case a notification was dropped.
	statePollInterval = 10 * time.Millisecond
	// noiseSeedStride spreads per-player noise streams apart.
	noiseSeedStride = 7919
)

// Reporting constants.
const (
	// defaultTopN is how many leaderboard entries are printed when the
	// config leaves TopN unset.
	defaultTopN = 10
	// percentageMultiplier converts a ratio to a percentage.
	percentageMultiplier = 100
)
