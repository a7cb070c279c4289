package metrics

// IME is the set of metrics the key event dispatcher maintains.
type IME struct {
	Registry *Registry

	KeyEvents     *Counter
	KeysConsumed  *Counter
	Commits       *Counter
	Backspaces    *Counter
	Sessions      *Counter
	ConfigSyncs   *Counter
	Composing     *Gauge
	EventDuration *Histogram
}

// NewIME registers the dispatcher metrics in r. A nil r gets a private
// registry.
func NewIME(r *Registry) *IME {
	if r == nil {
		r = NewRegistry("openbangla")
	}
	return &IME{
		Registry:      r,
		KeyEvents:     r.Counter("key_events_total", "Key press events received from the host"),
		KeysConsumed:  r.Counter("keys_consumed_total", "Key press events consumed by the input method"),
		Commits:       r.Counter("commits_total", "Words committed to the application"),
		Backspaces:    r.Counter("backspaces_total", "Backspaces applied to a composing word"),
		Sessions:      r.Counter("sessions_total", "Composing sessions started"),
		ConfigSyncs:   r.Counter("config_syncs_total", "Engine configuration refreshes from settings"),
		Composing:     r.Gauge("composing", "1 while a word is being composed"),
		EventDuration: r.Histogram("key_event_seconds", "Time spent handling one key event", LatencyBuckets),
	}
}
